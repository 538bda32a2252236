package engine

import (
	"context"
	"sort"

	"indentpaste/logger"
	"indentpaste/types"
)

// FormatRanges returns the post-edit range every plan occupies, skipping
// empty ones. This is a separate drift pass from CursorPositions.
func FormatRanges(sorted []*Plan) []types.Range {
	var ranges []types.Range
	drift := 0
	for _, p := range sorted {
		r := types.Range{
			Start: types.Position{Line: p.Selection.Start.Line + drift, Character: p.Selection.Start.Character},
			End:   types.Position{Line: p.BaseEnd.Line + drift, Character: p.BaseEnd.Character},
		}
		if !r.IsEmpty() {
			ranges = append(ranges, r)
		}
		drift += p.LineDelta()
	}
	return ranges
}

// MergeRanges sorts ranges and merges the ones that overlap or touch
func MergeRanges(ranges []types.Range) []types.Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]types.Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []types.Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start.Compare(last.End) <= 0 {
			if last.End.Before(r.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// formatPasted asks the formatter for edits over every merged range, one at
// a time, and applies each answer as its own transaction. Failures are
// logged and skipped. Returns how many ranges received edits.
func (e *Engine) formatPasted(ctx context.Context, sorted []*Plan, opts types.EditorOptions) int {
	if e.formatter == nil {
		logger.Debug("format on paste enabled but no formatter available")
		return 0
	}
	defer logger.Trace("engine.formatPasted")()

	fmtOpts := types.FormattingOptions{TabSize: opts.TabWidth, InsertSpaces: opts.InsertSpaces}
	applied := 0
	for _, r := range MergeRanges(FormatRanges(sorted)) {
		edits, err := e.formatter.FormatRange(ctx, r, fmtOpts)
		if err != nil {
			logger.Debug("format range %v failed: %v", r, err)
			continue
		}
		if len(edits) == 0 {
			continue
		}
		if err := e.buffer.ApplyEdits(ctx, edits); err != nil {
			logger.Debug("applying %d format edits failed: %v", len(edits), err)
			continue
		}
		applied++
	}
	return applied
}
