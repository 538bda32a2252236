package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"indentpaste/logger"
	"indentpaste/text"
	"indentpaste/types"
)

type Engine struct {
	buffer    Buffer
	clipboard Clipboard
	formatter Formatter // optional
	config    EngineConfig

	// one paste at a time; the buffer is the shared resource
	mu sync.Mutex
}

func NewEngine(buffer Buffer, clipboard Clipboard, formatter Formatter, config EngineConfig) (*Engine, error) {
	if buffer == nil {
		return nil, errors.New("engine: buffer is required")
	}
	if clipboard == nil {
		return nil, errors.New("engine: clipboard is required")
	}
	if config.Defaults.MultiCursorPaste == "" {
		config.Defaults.MultiCursorPaste = types.PasteModeSpread
	}
	return &Engine{
		buffer:    buffer,
		clipboard: clipboard,
		formatter: formatter,
		config:    config,
	}, nil
}

// Paste runs one indentation-aware paste. It defers to the editor's native
// paste when there is nothing to rebase or when the clipboard is meant to be
// spread one line per cursor.
func (e *Engine) Paste(ctx context.Context, req PasteRequest) (*PasteResult, error) {
	defer logger.Trace("engine.Paste")()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.config.PasteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.PasteTimeout)
		defer cancel()
	}

	if err := e.buffer.Sync(ctx, req.Selections); err != nil {
		logger.Warn("error syncing buffer, deferring to native paste: %v", err)
		return e.nativePaste(ctx)
	}

	sels := e.buffer.Selections()
	if len(sels) == 0 {
		logger.Debug("no selections, deferring to native paste")
		return e.nativePaste(ctx)
	}

	raw, err := e.clipboard.ReadText(ctx)
	if err != nil {
		logger.Warn("error reading clipboard: %v", err)
		raw = ""
	}
	if raw == "" {
		logger.Debug("clipboard empty, deferring to native paste")
		return e.nativePaste(ctx)
	}

	settings := ResolveSettings(e.buffer.HostSettings(), e.config.Defaults)
	if text.ShouldUseNativeSpread(raw, len(sels), settings.MultiCursorPaste) {
		logger.Debug("clipboard splits across %d cursors, using native spread paste", len(sels))
		return e.nativePaste(ctx)
	}

	eol := e.buffer.EOL()
	opts := e.buffer.Options()
	indentText := text.NormalizeEOL(raw, eol)
	pre := text.Prebake(indentText, opts.TabWidth)
	logger.Debug("paste: %d selection(s), %d line(s), baseline %d, eol %s",
		len(sels), len(pre.Rows), pre.Baseline, eol)

	plans := PlanPaste(e.buffer, sels, indentText, pre, opts, eol)
	logPlans(indentText, plans)

	edits := make([]types.TextEdit, len(plans))
	for i, p := range plans {
		edits[i] = p.Edit()
	}
	if err := e.buffer.ApplyEdits(ctx, edits); err != nil {
		return nil, fmt.Errorf("apply paste edits: %w", err)
	}

	// Edits are in. Everything below works in pre-edit coordinates plus drift.
	sorted := SortPlans(plans)
	cursors := CursorPositions(sorted)
	if err := e.buffer.SetCursors(ctx, cursors); err != nil {
		logger.Warn("error placing cursors: %v", err)
	}
	if err := e.buffer.Reveal(ctx, cursors[len(cursors)-1]); err != nil {
		logger.Warn("error revealing cursor: %v", err)
	}

	result := &PasteResult{Outcome: types.OutcomeRebased, Cursors: cursors}
	if settings.FormatOnPaste {
		result.Formatted = e.formatPasted(ctx, sorted, opts)
	}
	return result, nil
}

func (e *Engine) nativePaste(ctx context.Context) (*PasteResult, error) {
	if err := e.buffer.NativePaste(ctx); err != nil {
		return nil, fmt.Errorf("native paste: %w", err)
	}
	return &PasteResult{Outcome: types.OutcomeNative}, nil
}

func logPlans(indentText string, plans []*Plan) {
	if !logger.Enabled(logger.LogLevelDebug) {
		return
	}
	for _, p := range plans {
		if !p.Rebased {
			logger.Debug("selection %d: left context has content, pasting verbatim", p.Index)
			continue
		}
		logger.Debug("selection %d: rebased onto column %d, %d line(s) reindented, ends at %d:%d",
			p.Index, p.Column, text.ChangedLines(indentText, p.Text), p.BaseEnd.Line, p.BaseEnd.Character)
	}
}
