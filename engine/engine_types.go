package engine

import (
	"context"
	"time"

	"indentpaste/text"
	"indentpaste/types"
)

// Document is the read side of a buffer snapshot taken before the paste
type Document interface {
	Line(i int) string            // text of line i (0-indexed), "" when out of range
	TextIn(r types.Range) string // text covered by r, joined with the buffer's EOL
}

// Buffer defines the editor operations a paste needs.
// Implemented by buffer.NvimBuffer for Neovim integration.
type Buffer interface {
	Document
	// Sync snapshots lines, options and host settings. sels overrides the
	// editor's own cursor when non-empty.
	Sync(ctx context.Context, sels []types.Selection) error
	Selections() []types.Selection
	EOL() text.EOL
	Options() types.EditorOptions
	HostSettings() map[string]any
	// ApplyEdits applies every edit in one transaction. Ranges are in the
	// coordinates of the buffer before any of them is applied.
	ApplyEdits(ctx context.Context, edits []types.TextEdit) error
	SetCursors(ctx context.Context, positions []types.Position) error
	Reveal(ctx context.Context, pos types.Position) error
	NativePaste(ctx context.Context) error
}

// Clipboard provides the text to paste. An empty string is not an error.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
}

// Formatter returns formatting edits for a range, or none
type Formatter interface {
	FormatRange(ctx context.Context, r types.Range, opts types.FormattingOptions) ([]types.TextEdit, error)
}

type EngineConfig struct {
	Defaults     Settings      // used when the host leaves a setting unset or malformed
	PasteTimeout time.Duration // 0 = no timeout
}

// PasteRequest is one invocation of the paste command
type PasteRequest struct {
	Selections []types.Selection // empty = use the editor's cursor
}

// PasteResult reports what a paste did
type PasteResult struct {
	Outcome   types.PasteOutcome
	Cursors   []types.Position // final cursor positions, document order
	Formatted int              // merged ranges that received formatter edits
}
