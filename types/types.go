package types

// Position is a location in a buffer. Both fields are 0-indexed and Character
// is a byte column, matching nvim_buf_set_text.
type Position struct {
	Line      int
	Character int
}

// Compare orders positions by line, then column. Returns -1, 0 or 1.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Character < o.Character:
		return -1
	case p.Character > o.Character:
		return 1
	}
	return 0
}

func (p Position) Before(o Position) bool { return p.Compare(o) < 0 }

// Range is a half-open span between two positions
type Range struct {
	Start Position
	End   Position
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// Selection is one cursor. Start <= End always holds; an empty selection is a
// plain cursor at Start.
type Selection struct {
	Start Position
	End   Position
}

// NewSelection builds a selection from two positions in any order
func NewSelection(a, b Position) Selection {
	if b.Before(a) {
		a, b = b, a
	}
	return Selection{Start: a, End: b}
}

// CursorAt returns an empty selection at p
func CursorAt(p Position) Selection { return Selection{Start: p, End: p} }

func (s Selection) Range() Range { return Range{Start: s.Start, End: s.End} }

func (s Selection) IsEmpty() bool { return s.Start == s.End }

// TextEdit replaces Range with NewText
type TextEdit struct {
	Range   Range
	NewText string
}

// EditorOptions are the indentation options of the target buffer
type EditorOptions struct {
	TabWidth     int  // visual width of a tab, always > 0 once synced
	InsertSpaces bool // expandtab
}

// FormattingOptions are forwarded to range formatters
type FormattingOptions struct {
	TabSize      int
	InsertSpaces bool
}

// PasteMode is the host's multi-cursor paste behaviour
type PasteMode string

const (
	PasteModeSpread PasteMode = "spread"
	PasteModeFull   PasteMode = "full"
)

// PasteOutcome reports which path a paste request took
type PasteOutcome string

const (
	OutcomeNative  PasteOutcome = "native"
	OutcomeRebased PasteOutcome = "rebased"
)
