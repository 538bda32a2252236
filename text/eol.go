package text

import (
	"strings"

	"indentpaste/types"
)

// EOL is a buffer's line-break convention
type EOL int

const (
	LF EOL = iota
	CRLF
)

// Separator returns the literal line break for the convention
func (e EOL) Separator() string {
	if e == CRLF {
		return "\r\n"
	}
	return "\n"
}

func (e EOL) String() string {
	if e == CRLF {
		return "crlf"
	}
	return "lf"
}

// EOLFromFileFormat maps Neovim's 'fileformat' to an EOL.
// "mac" (bare CR) is not supported and is treated as LF.
func EOLFromFileFormat(ff string) EOL {
	if ff == "dos" {
		return CRLF
	}
	return LF
}

// SplitLines splits text on "\n" and "\r\n". A lone "\r" is content.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// NormalizeEOL rewrites every line break in text to the target convention
func NormalizeEOL(text string, eol EOL) string {
	return strings.Join(SplitLines(text), eol.Separator())
}

// CountLineBreaks counts occurrences of the convention's separator in s
func CountLineBreaks(s string, eol EOL) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, eol.Separator())
}

// EndPosition returns where inserting text at start would leave the end of
// the inserted block, in pre-edit coordinates.
func EndPosition(start types.Position, text string, eol EOL) types.Position {
	parts := strings.Split(text, eol.Separator())
	if len(parts) == 1 {
		return types.Position{Line: start.Line, Character: start.Character + len(parts[0])}
	}
	return types.Position{
		Line:      start.Line + len(parts) - 1,
		Character: len(parts[len(parts)-1]),
	}
}
