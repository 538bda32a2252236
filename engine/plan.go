package engine

import (
	"sort"

	"indentpaste/text"
	"indentpaste/types"
)

// Plan is what one selection receives
type Plan struct {
	Index      int // position in the request's selection list
	Selection  types.Selection
	Text       string
	BaseEnd    types.Position // end of Text if inserted at Selection.Start, pre-edit coordinates
	InsertedNL int
	ReplacedNL int
	Rebased    bool
	Column     int // cursor indentation column, 0 when not rebased
}

// LineDelta is how many lines this plan adds to the document
func (p *Plan) LineDelta() int { return p.InsertedNL - p.ReplacedNL }

func (p *Plan) Edit() types.TextEdit {
	return types.TextEdit{Range: p.Selection.Range(), NewText: p.Text}
}

// PlanPaste decides the insertion text for every selection, in input order.
// A selection whose left context is pure indentation receives the clipboard
// rebased onto its own column; any other selection receives indentText as-is.
// pre must be the analysis of indentText, shared by all selections.
func PlanPaste(doc Document, sels []types.Selection, indentText string, pre *text.Prebaked, opts types.EditorOptions, eol text.EOL) []*Plan {
	plans := make([]*Plan, 0, len(sels))
	for i, sel := range sels {
		before := leftContext(doc.Line(sel.Start.Line), sel.Start.Character)

		p := &Plan{Index: i, Selection: sel, Text: indentText}
		if text.IsAllIndent(before) {
			acols, hasTab := text.ScanLeftContext(before, opts.TabWidth)
			preferTabs := !opts.InsertSpaces || hasTab
			p.Text = pre.Assemble(acols, preferTabs, opts.TabWidth, eol)
			p.Rebased = true
			p.Column = acols
		}

		p.BaseEnd = text.EndPosition(sel.Start, p.Text, eol)
		p.InsertedNL = text.CountLineBreaks(p.Text, eol)
		if !sel.IsEmpty() {
			p.ReplacedNL = text.CountLineBreaks(doc.TextIn(sel.Range()), eol)
		}
		plans = append(plans, p)
	}
	return plans
}

func leftContext(line string, col int) string {
	if col < 0 {
		return ""
	}
	if col > len(line) {
		col = len(line)
	}
	return line[:col]
}

// SortPlans returns a copy of plans in document order of their selection start
func SortPlans(plans []*Plan) []*Plan {
	sorted := make([]*Plan, len(plans))
	copy(sorted, plans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Selection.Start.Before(sorted[j].Selection.Start)
	})
	return sorted
}
