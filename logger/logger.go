package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxLogLines is how many lines the log file keeps; older lines are dropped
const MaxLogLines = 2000

type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LogLevelTrace || l > LogLevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name. Unknown names mean INFO.
func ParseLogLevel(s string) LogLevel {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LogLevelWarn
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i)
		}
	}
	return LogLevelInfo
}

// File is the minimal file surface the logger needs for trimming
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Truncate(size int64) error
}

// LimitedLogger is a leveled logger that keeps its file at MaxLogLines lines
type LimitedLogger struct {
	mu        sync.Mutex
	file      File
	level     LogLevel
	lineCount int
	maxLines  int
}

var (
	globalLogger  *LimitedLogger
	stderrLogger  = &LimitedLogger{file: nil, level: LogLevelInfo}
	noopTraceDone = func() {}
)

// NewLimitedLogger wraps file and installs it as the package logger
func NewLimitedLogger(file File, level LogLevel) *LimitedLogger {
	ll := &LimitedLogger{file: file, level: level, maxLines: MaxLogLines}
	ll.lineCount = countLines(file)
	globalLogger = ll
	return ll
}

// Open appends to the log at path, creating it when missing
func Open(path string, level LogLevel) (*LimitedLogger, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLimitedLogger(f, level), nil
}

func (ll *LimitedLogger) SetLevel(level LogLevel) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.level = level
}

func (ll *LimitedLogger) enabled(level LogLevel) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	return level >= ll.level
}

func (ll *LimitedLogger) logf(level LogLevel, format string, v ...any) {
	if !ll.enabled(level) {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	ll.Write([]byte(line))
}

func (ll *LimitedLogger) Debug(format string, v ...any) { ll.logf(LogLevelDebug, format, v...) }
func (ll *LimitedLogger) Info(format string, v ...any)  { ll.logf(LogLevelInfo, format, v...) }
func (ll *LimitedLogger) Warn(format string, v ...any)  { ll.logf(LogLevelWarn, format, v...) }
func (ll *LimitedLogger) Error(format string, v ...any) { ll.logf(LogLevelError, format, v...) }

// Write implements io.Writer so the standard log package can point here
func (ll *LimitedLogger) Write(p []byte) (int, error) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return os.Stderr.Write(p)
	}
	n, err := ll.file.Write(p)
	if err != nil {
		return n, err
	}
	ll.lineCount += strings.Count(string(p), "\n")
	if ll.maxLines > 0 && ll.lineCount > ll.maxLines {
		ll.trim()
	}
	return n, nil
}

// trim rewrites the file with only its newest maxLines lines. Caller holds mu.
func (ll *LimitedLogger) trim() {
	if _, err := ll.file.Seek(0, io.SeekStart); err != nil {
		return
	}
	var lines []string
	scanner := bufio.NewScanner(ll.file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > ll.maxLines {
		lines = lines[len(lines)-ll.maxLines:]
	}

	ll.file.Truncate(0)
	ll.file.Seek(0, io.SeekStart)
	w := bufio.NewWriter(ll.file)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	w.Flush()
	ll.lineCount = len(lines)
}

func (ll *LimitedLogger) Close() error {
	if ll.file == nil {
		return nil
	}
	return ll.file.Close()
}

func countLines(f File) int {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	f.Seek(0, io.SeekEnd)
	return n
}

func current() *LimitedLogger {
	if globalLogger != nil {
		return globalLogger
	}
	return stderrLogger
}

// Enabled reports whether the package logger writes messages at level
func Enabled(level LogLevel) bool { return current().enabled(level) }

func SetGlobalLevel(level LogLevel) { current().SetLevel(level) }

func Debug(format string, v ...any) { current().Debug(format, v...) }
func Info(format string, v ...any)  { current().Info(format, v...) }
func Warn(format string, v ...any)  { current().Warn(format, v...) }
func Error(format string, v ...any) { current().Error(format, v...) }

// Fatal logs at ERROR and exits with status 1
func Fatal(format string, v ...any) {
	current().Error(format, v...)
	os.Exit(1)
}

// Trace returns a func that logs the elapsed time when called.
// Usage: defer logger.Trace("operation")()
func Trace(name string) func() {
	if !Enabled(LogLevelTrace) {
		return noopTraceDone
	}
	start := time.Now()
	return func() {
		current().logf(LogLevelTrace, "%s: %v", name, time.Since(start))
	}
}
