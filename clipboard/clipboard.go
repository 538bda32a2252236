// Package clipboard provides the text sources a paste can read from: a Neovim
// register, the OS clipboard, or a chain of both.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"indentpaste/logger"

	"github.com/atotto/clipboard"
	"github.com/neovim/go-client/nvim"
)

// Source kinds accepted by New
const (
	KindRegister = "register"
	KindSystem   = "system"
	KindAuto     = "auto"
)

// DefaultRegister is the register read when none is configured
const DefaultRegister = "+"

// Source reads the text to paste. Empty text is not an error.
type Source interface {
	ReadText(ctx context.Context) (string, error)
}

// RegisterSource reads a Neovim register
type RegisterSource struct {
	client   *nvim.Nvim
	register string
}

func NewRegisterSource(client *nvim.Nvim, register string) *RegisterSource {
	if register == "" {
		register = DefaultRegister
	}
	return &RegisterSource{client: client, register: register}
}

func (s *RegisterSource) ReadText(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", errors.New("nvim client not set")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	batch := s.client.NewBatch()
	batch.ExecLua(`return vim.fn.getreg(...)`, &text, s.register)
	if err := batch.Execute(); err != nil {
		return "", fmt.Errorf("read register %q: %w", s.register, err)
	}
	return text, nil
}

type command struct {
	name string
	args []string
}

// SystemSource reads the OS clipboard, falling back to the usual command
// line tools when the clipboard library finds nothing.
type SystemSource struct {
	read     func() (string, error)
	commands []command
}

func NewSystemSource() *SystemSource {
	return &SystemSource{
		read: clipboard.ReadAll,
		commands: []command{
			{name: "wl-paste", args: []string{"--no-newline"}},
			{name: "xclip", args: []string{"-o", "-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--output"}},
			{name: "pbpaste"},
		},
	}
}

func (s *SystemSource) ReadText(ctx context.Context) (string, error) {
	text, err := s.read()
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil {
		logger.Debug("system clipboard read failed: %v", err)
	}

	for _, c := range s.commands {
		if _, lookErr := exec.LookPath(c.name); lookErr != nil {
			continue
		}
		out, cmdErr := exec.CommandContext(ctx, c.name, c.args...).Output()
		if cmdErr == nil && len(out) > 0 {
			return string(out), nil
		}
	}

	if err != nil && clipboard.Unsupported {
		return "", fmt.Errorf("system clipboard unavailable: %w", err)
	}
	return "", nil
}

// Chain returns the first non-empty text from its sources, in order
type Chain []Source

func (c Chain) ReadText(ctx context.Context) (string, error) {
	var errs []error
	for _, src := range c {
		text, err := src.ReadText(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	return "", errors.Join(errs...)
}

// New builds the source for kind. Unknown kinds fall back to the register.
func New(kind string, client *nvim.Nvim, register string) Source {
	switch strings.ToLower(kind) {
	case KindSystem:
		return NewSystemSource()
	case KindAuto:
		return Chain{NewRegisterSource(client, register), NewSystemSource()}
	case KindRegister, "":
		return NewRegisterSource(client, register)
	default:
		logger.Warn("unknown clipboard source %q, using register", kind)
		return NewRegisterSource(client, register)
	}
}
