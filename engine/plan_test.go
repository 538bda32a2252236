package engine

import (
	"indentpaste/assert"
	"indentpaste/text"
	"indentpaste/types"
	"testing"
)

func planFor(doc Document, sels []types.Selection, clip string, opts types.EditorOptions) []*Plan {
	pre := text.Prebake(clip, opts.TabWidth)
	return PlanPaste(doc, sels, clip, pre, opts, text.LF)
}

func TestPlanPaste_RebasedAndVerbatim(t *testing.T) {
	doc := newMockBuffer("    ", "foo ")
	opts := types.EditorOptions{TabWidth: 4, InsertSpaces: true}

	plans := planFor(doc, []types.Selection{cursor(0, 4), cursor(1, 4)}, "a\n    b", opts)

	assert.Len(t, 2, plans, "one plan per selection")
	assert.True(t, plans[0].Rebased, "pure indent is rebased")
	assert.Equal(t, 4, plans[0].Column, "cursor column")
	assert.Equal(t, "a\n        b", plans[0].Text, "rebased text")
	assert.False(t, plans[1].Rebased, "content left of cursor")
	assert.Equal(t, "a\n    b", plans[1].Text, "verbatim text")
}

func TestPlanPaste_InputOrderKept(t *testing.T) {
	doc := newMockBuffer("", "", "")
	opts := types.EditorOptions{TabWidth: 4, InsertSpaces: true}

	plans := planFor(doc, []types.Selection{cursor(2, 0), cursor(0, 0)}, "x", opts)

	assert.Equal(t, 0, plans[0].Index, "first index")
	assert.Equal(t, 2, plans[0].Selection.Start.Line, "first plan is first selection")
	assert.Equal(t, 1, plans[1].Index, "second index")
}

func TestPlanPaste_LineBreakCounts(t *testing.T) {
	doc := newMockBuffer("abc", "def", "ghi")
	opts := types.EditorOptions{TabWidth: 4, InsertSpaces: true}
	sel := types.NewSelection(pos(0, 0), pos(2, 1))

	plans := planFor(doc, []types.Selection{sel}, "1\n2\n3\n4", opts)

	assert.Equal(t, 3, plans[0].InsertedNL, "inserted breaks")
	assert.Equal(t, 2, plans[0].ReplacedNL, "replaced breaks")
	assert.Equal(t, 1, plans[0].LineDelta(), "net drift")
	assert.Equal(t, pos(3, 1), plans[0].BaseEnd, "end from selection start")
}

func TestPlanPaste_InsertSpacesOffUsesTabs(t *testing.T) {
	doc := newMockBuffer("        ")
	opts := types.EditorOptions{TabWidth: 4, InsertSpaces: false}

	plans := planFor(doc, []types.Selection{cursor(0, 8)}, "a\n    b", opts)

	assert.Equal(t, "a\n\t\t\tb", plans[0].Text, "tabs from noexpandtab")
}

func TestPlanPaste_CursorPastEndOfLine(t *testing.T) {
	doc := newMockBuffer("  ")
	opts := types.EditorOptions{TabWidth: 4, InsertSpaces: true}

	plans := planFor(doc, []types.Selection{cursor(0, 10)}, "a\n  b", opts)

	assert.True(t, plans[0].Rebased, "left context clamped to the line")
	assert.Equal(t, 2, plans[0].Column, "column of the whole line")
}

func TestPlanPaste_EditCoversSelection(t *testing.T) {
	doc := newMockBuffer("abc")
	sel := types.NewSelection(pos(0, 1), pos(0, 2))
	plans := planFor(doc, []types.Selection{sel}, "Z", types.EditorOptions{TabWidth: 4})

	edit := plans[0].Edit()

	assert.Equal(t, sel.Range(), edit.Range, "range")
	assert.Equal(t, "Z", edit.NewText, "text")
}

func TestSortPlans_DocumentOrder(t *testing.T) {
	plans := []*Plan{
		{Index: 0, Selection: cursor(3, 0)},
		{Index: 1, Selection: cursor(1, 5)},
		{Index: 2, Selection: cursor(1, 2)},
	}

	sorted := SortPlans(plans)

	assert.Equal(t, 2, sorted[0].Index, "line 1 col 2 first")
	assert.Equal(t, 1, sorted[1].Index, "line 1 col 5 second")
	assert.Equal(t, 0, sorted[2].Index, "line 3 last")
	assert.Equal(t, 0, plans[0].Index, "input slice untouched")
}

func TestCursorPositions_Drift(t *testing.T) {
	sorted := []*Plan{
		{Selection: cursor(5, 0), BaseEnd: pos(7, 3), InsertedNL: 2},
		{Selection: cursor(10, 0), BaseEnd: pos(12, 3), InsertedNL: 2},
		{Selection: types.NewSelection(pos(20, 0), pos(23, 0)), BaseEnd: pos(20, 1), ReplacedNL: 3},
		{Selection: cursor(30, 4), BaseEnd: pos(30, 5)},
	}

	got := CursorPositions(sorted)

	assert.Equal(t, []types.Position{pos(7, 3), pos(14, 3), pos(24, 1), pos(31, 5)}, got, "positions")
}

func TestCursorPositions_Empty(t *testing.T) {
	assert.Len(t, 0, CursorPositions(nil), "no plans")
}
