package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineHunk replaces old lines [OldStart, OldEnd) with Lines. A pure
// insertion has OldStart == OldEnd; a pure deletion has no Lines.
type LineHunk struct {
	OldStart int
	OldEnd   int
	Lines    []string
}

// LineHunks returns the changed regions between two line slices, in order,
// using a line-level diff. Equal lines are never part of a hunk.
func LineHunks(oldLines, newLines []string) []LineHunk {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(joinTerminated(oldLines), joinTerminated(newLines))
	diffs := dmp.DiffMain(chars1, chars2, false)
	lineDiffs := dmp.DiffCharsToLines(diffs, lineArray)

	var hunks []LineHunk
	var cur *LineHunk
	line := 0
	for _, d := range lineDiffs {
		n := strings.Count(d.Text, "\n")
		if d.Type == diffmatchpatch.DiffEqual {
			if cur != nil {
				hunks = append(hunks, *cur)
				cur = nil
			}
			line += n
			continue
		}
		if cur == nil {
			cur = &LineHunk{OldStart: line, OldEnd: line}
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			cur.OldEnd += n
			line += n
		case diffmatchpatch.DiffInsert:
			cur.Lines = append(cur.Lines, strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")...)
		}
	}
	if cur != nil {
		hunks = append(hunks, *cur)
	}
	return hunks
}

// every line ends in "\n" so the last line diffs like the others
func joinTerminated(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// ChangedLines counts the lines of after that differ from before. Line
// breaks are normalized first, so an EOL rewrite alone is not a change.
func ChangedLines(before, after string) int {
	changed := 0
	for _, h := range LineHunks(SplitLines(before), SplitLines(after)) {
		changed += len(h.Lines)
	}
	return changed
}
