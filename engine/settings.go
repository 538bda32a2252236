package engine

import (
	"strconv"
	"strings"

	"indentpaste/logger"
	"indentpaste/types"
)

// Host setting keys, read from vim.b / vim.g with an "indentpaste_" prefix
const (
	HostKeyMultiCursorPaste = "multi_cursor_paste"
	HostKeyFormatOnPaste    = "format_on_paste"
)

// Settings are the per-paste configuration values
type Settings struct {
	MultiCursorPaste types.PasteMode
	FormatOnPaste    bool
}

func DefaultSettings() Settings {
	return Settings{
		MultiCursorPaste: types.PasteModeSpread,
		FormatOnPaste:    false,
	}
}

// ParsePasteMode accepts "spread" or "full", case-insensitively
func ParsePasteMode(s string) (types.PasteMode, bool) {
	switch types.PasteMode(strings.ToLower(strings.TrimSpace(s))) {
	case types.PasteModeSpread:
		return types.PasteModeSpread, true
	case types.PasteModeFull:
		return types.PasteModeFull, true
	}
	return "", false
}

// ResolveSettings overlays host values on defaults. Missing or malformed
// values keep the default.
func ResolveSettings(host map[string]any, defaults Settings) Settings {
	s := defaults
	if s.MultiCursorPaste == "" {
		s.MultiCursorPaste = types.PasteModeSpread
	}

	if raw, ok := host[HostKeyMultiCursorPaste]; ok && raw != nil {
		str, isStr := raw.(string)
		if mode, valid := ParsePasteMode(str); isStr && valid {
			s.MultiCursorPaste = mode
		} else {
			logger.Warn("ignoring invalid %s value %v", HostKeyMultiCursorPaste, raw)
		}
	}

	if raw, ok := host[HostKeyFormatOnPaste]; ok && raw != nil {
		if b, valid := toBool(raw); valid {
			s.FormatOnPaste = b
		} else {
			logger.Warn("ignoring invalid %s value %v", HostKeyFormatOnPaste, raw)
		}
	}

	return s
}

// toBool accepts Lua booleans and Vimscript-style 0/1 numbers
func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case int:
		return val != 0, true
	case int64:
		return val != 0, true
	case uint64:
		return val != 0, true
	case float64:
		return val != 0, true
	case string:
		b, err := strconv.ParseBool(val)
		return b, err == nil
	}
	return false, false
}
