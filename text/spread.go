package text

import (
	"strings"

	"indentpaste/types"
)

// ShouldUseNativeSpread reports whether the host's one-line-per-cursor paste
// should handle raw. That is the case in spread mode with several cursors
// when raw splits into exactly one segment per cursor, with or without a
// trailing line break.
func ShouldUseNativeSpread(raw string, cursors int, mode types.PasteMode) bool {
	if mode != types.PasteModeSpread || cursors <= 1 {
		return false
	}

	want := cursors - 1
	if strings.HasSuffix(raw, "\n") {
		want = cursors
	}

	from := 0
	for seen := 0; seen < want; seen++ {
		i := strings.IndexByte(raw[from:], '\n')
		if i == -1 {
			return false
		}
		from += i + 1
	}
	return strings.IndexByte(raw[from:], '\n') == -1
}
