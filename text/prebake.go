package text

import "indentpaste/utils"

// PreLine is one clipboard line with its leading whitespace removed and its
// indentation expressed relative to the paste baseline.
type PreLine struct {
	Rest  string
	Delta int // columns above the baseline; always 0 for the first line
}

// Prebaked is the clipboard analysis shared by every cursor of one paste
type Prebaked struct {
	Rows     []PreLine
	Baseline int
}

// Prebake computes the baseline indentation of text and every line's delta
// from it.
//
// The first line is pasted right after the cursor, so it never takes part in
// the baseline. The baseline is the smallest indentation among the remaining
// lines that have content. When the first line is shallower than that, it is
// taken as a header one step above its body and the baseline drops by one
// step. The step is the gcd of the differences between the body's indents,
// or the tab width when the body is uniform.
func Prebake(text string, tabWidth int) *Prebaked {
	tabWidth = tabWidthOrDefault(tabWidth)
	lines := SplitLines(text)

	chars := make([]int, len(lines))
	indents := make([]int, len(lines))
	var contentIdx []int
	for i, line := range lines {
		chars[i], indents[i] = ScanIndent(line, tabWidth)
		if chars[i] < len(line) {
			contentIdx = append(contentIdx, i)
		}
	}

	baseline := computeBaseline(indents, contentIdx, tabWidth)

	rows := make([]PreLine, len(lines))
	for i, line := range lines {
		rows[i].Rest = line[chars[i]:]
		if i > 0 {
			rows[i].Delta = utils.ClampNonNegative(indents[i] - baseline)
		}
	}
	return &Prebaked{Rows: rows, Baseline: baseline}
}

func computeBaseline(indents, contentIdx []int, tabWidth int) int {
	if len(contentIdx) == 0 {
		return 0
	}

	var tail []int
	for _, idx := range contentIdx {
		if idx != 0 {
			tail = append(tail, indents[idx])
		}
	}
	if len(tail) == 0 {
		return 0
	}

	minTail := tail[0]
	for _, col := range tail[1:] {
		minTail = min(minTail, col)
	}

	unit := 0
	for a := 0; a < len(tail); a++ {
		for b := a + 1; b < len(tail); b++ {
			d := utils.Abs(tail[a] - tail[b])
			if d == 0 {
				continue
			}
			if unit == 0 {
				unit = d
			} else {
				unit = utils.GCD(unit, d)
			}
		}
	}
	if unit == 0 {
		unit = tabWidth
	}

	indent0 := 0
	if contentIdx[0] == 0 {
		indent0 = indents[0]
	}

	if indent0 < minTail {
		return utils.ClampNonNegative(minTail - unit)
	}
	return minTail
}
