package text

import (
	"indentpaste/assert"
	"indentpaste/types"
	"testing"
)

func TestShouldUseNativeSpread_ExactTrailingBreaks(t *testing.T) {
	assert.True(t, ShouldUseNativeSpread("a\nb\nc\n", 3, types.PasteModeSpread), "one terminated line per cursor")
}

func TestShouldUseNativeSpread_NoTrailingBreak(t *testing.T) {
	assert.True(t, ShouldUseNativeSpread("a\nb\nc", 3, types.PasteModeSpread), "n-1 breaks without trailing")
}

func TestShouldUseNativeSpread_TooManyBreaks(t *testing.T) {
	assert.False(t, ShouldUseNativeSpread("a\nb\nc\nd\n", 3, types.PasteModeSpread), "n+1 terminated lines")
	assert.False(t, ShouldUseNativeSpread("a\nb\nc\nd", 3, types.PasteModeSpread), "n+1 segments")
}

func TestShouldUseNativeSpread_TooFewBreaks(t *testing.T) {
	assert.False(t, ShouldUseNativeSpread("a\nb", 3, types.PasteModeSpread), "two segments for three cursors")
	assert.False(t, ShouldUseNativeSpread("a", 2, types.PasteModeSpread), "single line")
}

func TestShouldUseNativeSpread_ModeAndCursorCount(t *testing.T) {
	assert.False(t, ShouldUseNativeSpread("a\nb\nc\n", 3, types.PasteModeFull), "full mode")
	assert.False(t, ShouldUseNativeSpread("a\nb\nc\n", 3, types.PasteMode("")), "unknown mode")
	assert.False(t, ShouldUseNativeSpread("a\n", 1, types.PasteModeSpread), "single cursor")
	assert.False(t, ShouldUseNativeSpread("", 0, types.PasteModeSpread), "no cursors")
}

func TestShouldUseNativeSpread_CRLF(t *testing.T) {
	assert.True(t, ShouldUseNativeSpread("a\r\nb\r\n", 2, types.PasteModeSpread), "CRLF counts by LF")
}
