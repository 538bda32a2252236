package logger

import (
	"indentpaste/assert"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTemp(t *testing.T, level LogLevel) (*LimitedLogger, string) {
	t.Helper()
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	path := filepath.Join(t.TempDir(), "test.log")
	ll, err := Open(path, level)
	assert.NoError(t, err, "Open")
	t.Cleanup(func() { ll.Close() })
	return ll, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NoError(t, err, "ReadFile")
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelTrace, ParseLogLevel("trace"), "trace")
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"), "debug")
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warning"), "warning alias")
	assert.Equal(t, LogLevelError, ParseLogLevel(" error "), "padded")
	assert.Equal(t, LogLevelInfo, ParseLogLevel("nonsense"), "unknown means info")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "WARN", LogLevelWarn.String(), "warn")
	assert.Equal(t, "UNKNOWN", LogLevel(42).String(), "out of range")
}

func TestLevelFiltering(t *testing.T) {
	ll, path := openTemp(t, LogLevelWarn)

	ll.Debug("hidden")
	ll.Info("hidden too")
	ll.Warn("shown %d", 1)
	Error("shown %d", 2)

	lines := readLines(t, path)
	assert.Len(t, 2, lines, "only warn and error written")
	assert.Contains(t, lines[0], "[WARN] shown 1", "warn line")
	assert.Contains(t, lines[1], "[ERROR] shown 2", "package-level error goes to global logger")
}

func TestEnabled(t *testing.T) {
	openTemp(t, LogLevelInfo)

	assert.False(t, Enabled(LogLevelDebug), "debug disabled")
	assert.True(t, Enabled(LogLevelInfo), "info enabled")

	SetGlobalLevel(LogLevelTrace)
	assert.True(t, Enabled(LogLevelTrace), "trace enabled after SetGlobalLevel")
}

func TestTrimKeepsNewestLines(t *testing.T) {
	ll, path := openTemp(t, LogLevelInfo)
	ll.maxLines = 3

	for i := 0; i < 5; i++ {
		ll.Write([]byte("line " + string(rune('a'+i)) + "\n"))
	}

	lines := readLines(t, path)
	assert.Equal(t, []string{"line c", "line d", "line e"}, lines, "oldest lines dropped")
	assert.Equal(t, 3, ll.lineCount, "line count reset")
}

func TestOpenCountsExistingLines(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	path := filepath.Join(t.TempDir(), "existing.log")
	assert.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644), "seed file")

	ll, err := Open(path, LogLevelInfo)
	assert.NoError(t, err, "Open")
	defer ll.Close()

	assert.Equal(t, 2, ll.lineCount, "existing lines counted")
}

func TestTraceDisabledIsNoop(t *testing.T) {
	_, path := openTemp(t, LogLevelInfo)

	Trace("op")()

	assert.Len(t, 0, readLines(t, path), "nothing written")
}
