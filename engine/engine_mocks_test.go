package engine

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"indentpaste/text"
	"indentpaste/types"
)

// --- Mock implementations ---

// mockBuffer implements Buffer over an in-memory line slice. ApplyEdits
// really edits the lines so tests can check the resulting document.
type mockBuffer struct {
	mu         sync.Mutex
	lines      []string
	eol        text.EOL
	opts       types.EditorOptions
	cursor     types.Position
	selections []types.Selection
	host       map[string]any

	syncErr      error
	applyErr     error
	noSelections bool

	// Track method calls
	syncCalls        int
	nativePasteCalls int
	appliedBatches   [][]types.TextEdit
	cursors          []types.Position
	revealed         *types.Position
}

func newMockBuffer(lines ...string) *mockBuffer {
	return &mockBuffer{
		lines: lines,
		eol:   text.LF,
		opts:  types.EditorOptions{TabWidth: 4, InsertSpaces: true},
		host:  map[string]any{},
	}
}

func (b *mockBuffer) Sync(_ context.Context, sels []types.Selection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncCalls++
	if b.syncErr != nil {
		return b.syncErr
	}
	if b.noSelections {
		b.selections = nil
	} else if len(sels) > 0 {
		b.selections = sels
	} else {
		b.selections = []types.Selection{types.CursorAt(b.cursor)}
	}
	return nil
}

func (b *mockBuffer) Selections() []types.Selection { return b.selections }

func (b *mockBuffer) EOL() text.EOL { return b.eol }

func (b *mockBuffer) Options() types.EditorOptions { return b.opts }

func (b *mockBuffer) HostSettings() map[string]any { return b.host }

func (b *mockBuffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

func (b *mockBuffer) content() string {
	return strings.Join(b.lines, b.eol.Separator())
}

func (b *mockBuffer) offset(p types.Position) int {
	off := 0
	for i := 0; i < p.Line && i < len(b.lines); i++ {
		off += len(b.lines[i]) + len(b.eol.Separator())
	}
	return off + p.Character
}

func (b *mockBuffer) TextIn(r types.Range) string {
	return b.content()[b.offset(r.Start):b.offset(r.End)]
}

func (b *mockBuffer) ApplyEdits(_ context.Context, edits []types.TextEdit) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.applyErr != nil {
		return b.applyErr
	}
	b.appliedBatches = append(b.appliedBatches, edits)

	// bottom-up; inserts at one position land in input order
	sorted := make([]types.TextEdit, len(edits))
	for i := range edits {
		sorted[i] = edits[len(edits)-1-i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Range.Start.Before(sorted[i].Range.Start)
	})

	content := b.content()
	for _, e := range sorted {
		start, end := b.offset(e.Range.Start), b.offset(e.Range.End)
		content = content[:start] + e.NewText + content[end:]
	}
	b.lines = strings.Split(content, b.eol.Separator())
	return nil
}

func (b *mockBuffer) SetCursors(_ context.Context, positions []types.Position) error {
	b.cursors = positions
	return nil
}

func (b *mockBuffer) Reveal(_ context.Context, pos types.Position) error {
	b.revealed = &pos
	return nil
}

func (b *mockBuffer) NativePaste(context.Context) error {
	b.nativePasteCalls++
	return nil
}

// mockClipboard returns a fixed text
type mockClipboard struct {
	text  string
	err   error
	reads int
}

func (c *mockClipboard) ReadText(context.Context) (string, error) {
	c.reads++
	return c.text, c.err
}

// mockFormatter records requested ranges and answers from a callback
type mockFormatter struct {
	ranges  []types.Range
	opts    []types.FormattingOptions
	respond func(r types.Range) ([]types.TextEdit, error)
}

func (f *mockFormatter) FormatRange(_ context.Context, r types.Range, opts types.FormattingOptions) ([]types.TextEdit, error) {
	f.ranges = append(f.ranges, r)
	f.opts = append(f.opts, opts)
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(r)
}

var errMock = errors.New("mock failure")

func pos(line, char int) types.Position {
	return types.Position{Line: line, Character: char}
}

func cursor(line, char int) types.Selection {
	return types.CursorAt(pos(line, char))
}
