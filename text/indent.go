package text

import "strings"

// DefaultTabWidth replaces non-positive tab widths; it is Neovim's 'tabstop' default.
const DefaultTabWidth = 8

func tabWidthOrDefault(tabWidth int) int {
	if tabWidth <= 0 {
		return DefaultTabWidth
	}
	return tabWidth
}

// advance moves col past one whitespace character.
// A tab jumps to the next multiple of tabWidth.
func advance(col int, c byte, tabWidth int) int {
	if c == '\t' {
		return col + tabWidth - col%tabWidth
	}
	return col + 1
}

// ScanIndent walks the leading spaces and tabs of line and returns how many
// bytes were consumed and the visual column they reach.
func ScanIndent(line string, tabWidth int) (chars, cols int) {
	tabWidth = tabWidthOrDefault(tabWidth)
	for chars < len(line) {
		c := line[chars]
		if c != ' ' && c != '\t' {
			break
		}
		cols = advance(cols, c, tabWidth)
		chars++
	}
	return chars, cols
}

// ScanLeftContext measures the text left of a cursor with the same column
// model as ScanIndent and reports whether a literal tab was seen in it.
func ScanLeftContext(before string, tabWidth int) (cols int, hasTab bool) {
	tabWidth = tabWidthOrDefault(tabWidth)
	for i := 0; i < len(before); i++ {
		c := before[i]
		if c != ' ' && c != '\t' {
			break
		}
		if c == '\t' {
			hasTab = true
		}
		cols = advance(cols, c, tabWidth)
	}
	return cols, hasTab
}

// IsAllIndent reports whether s holds only spaces and tabs. "" is all indent.
func IsAllIndent(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// MakeIndent renders cols visual columns of indentation
func MakeIndent(cols int, preferTabs bool, tabWidth int) string {
	if cols <= 0 {
		return ""
	}
	if !preferTabs {
		return strings.Repeat(" ", cols)
	}
	tabWidth = tabWidthOrDefault(tabWidth)
	return strings.Repeat("\t", cols/tabWidth) + strings.Repeat(" ", cols%tabWidth)
}
