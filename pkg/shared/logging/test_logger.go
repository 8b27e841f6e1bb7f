package logging

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// Entry is one message captured by TestLogger.
type Entry struct {
	Level   Level
	Module  string
	Message string
	Args    []interface{}
}

// String renders the entry the way SimpleLogger would, without timestamp or colors.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Module, e.Level, e.Message)
	for i := 0; i+1 < len(e.Args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Args[i], e.Args[i+1])
	}
	return b.String()
}

type entrySink struct {
	mu      sync.Mutex
	entries []Entry
}

// TestLogger is a logger for testing that records entries instead of printing them
type TestLogger struct {
	module string
	t      *testing.T
	sink   *entrySink
}

// NewTestLogger creates a new test logger that suppresses output
// If you need to see logs during tests, use NewTestLoggerVerbose instead
func NewTestLogger() *TestLogger {
	return &TestLogger{
		module: "test",
		sink:   &entrySink{},
	}
}

// NewTestLoggerVerbose creates a test logger that also outputs to testing.T
func NewTestLoggerVerbose(t *testing.T) *TestLogger {
	return &TestLogger{
		module: "test",
		t:      t,
		sink:   &entrySink{},
	}
}

func (l *TestLogger) record(level Level, msg string, args []interface{}) {
	e := Entry{Level: level, Module: l.module, Message: msg, Args: args}
	l.sink.mu.Lock()
	l.sink.entries = append(l.sink.entries, e)
	l.sink.mu.Unlock()
	if l.t != nil {
		l.t.Log(e.String())
	}
}

// Entries returns a copy of everything logged so far, including sub-module loggers.
func (l *TestLogger) Entries() []Entry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]Entry, len(l.sink.entries))
	copy(out, l.sink.entries)
	return out
}

// Contains reports whether any rendered entry contains s.
func (l *TestLogger) Contains(s string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e.String(), s) {
			return true
		}
	}
	return false
}

// Debug logs a debug message
func (l *TestLogger) Debug(msg string, args ...interface{}) { l.record(LevelDebug, msg, args) }

// Info logs an informational message
func (l *TestLogger) Info(msg string, args ...interface{}) { l.record(LevelInfo, msg, args) }

// Warn logs a warning message
func (l *TestLogger) Warn(msg string, args ...interface{}) { l.record(LevelWarn, msg, args) }

// Error logs an error message
func (l *TestLogger) Error(msg string, args ...interface{}) { l.record(LevelError, msg, args) }

// Fatal records a fatal message. It does not exit.
func (l *TestLogger) Fatal(msg string, args ...interface{}) { l.record(LevelFatal, msg, args) }

// WithModule creates a new logger with a hierarchical component name.
// Entries from the child are visible through the parent's Entries.
func (l *TestLogger) WithModule(module string) Logger {
	newModule := module
	if l.module != "" {
		newModule = l.module + "/" + module
	}
	return &TestLogger{
		module: newModule,
		t:      l.t,
		sink:   l.sink,
	}
}
