package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Logger is a named logger. Every line carries the "[name>]" prefix after
// the level.
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder wraps an io.Writer so that atomic.Value always stores the same
// concrete type, avoiding the "inconsistently typed value" panic when changing
// from *os.File to *bytes.Buffer (or any other writer) in tests.
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug atomic.Bool

	// serviceDebug stores per-service debug overrides.
	serviceDebug sync.Map // map[string]*atomic.Bool

	// loggers caches created named loggers.
	loggers sync.Map // map[string]*Logger

	outputWriter atomic.Value // writerHolder
)

// Level names.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForService returns (and memoizes) the logger for a component, e.g. "web",
// "catalog" or "sheets".
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	std := log.New(Output(), "", log.LstdFlags|log.Lmicroseconds)
	actual, _ := loggers.LoadOrStore(name, &Logger{name: name, std: std})
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging for every logger.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor enables debug logging for a single component.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := serviceDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor reports whether debug lines of the named component are
// printed.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := serviceDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput redirects every logger, existing or future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// Output returns the current destination of all loggers.
func Output() io.Writer {
	return outputWriter.Load().(writerHolder).w
}

func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) print(level, msg string) {
	l.std.Println(level + " [" + l.name + ">] " + msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.print(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.print(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.print(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs only when debug is enabled globally or for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.print(LevelDebug, fmt.Sprintf(format, args...))
}

// StdLogger returns a standard library logger that writes through l at the
// given level, for APIs such as http.Server.ErrorLog.
func (l *Logger) StdLogger(level string) *log.Logger {
	return log.New(levelWriter{l: l, level: level}, "", 0)
}

type levelWriter struct {
	l     *Logger
	level string
}

func (w levelWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if w.level == LevelDebug {
		w.l.Debugf("%s", msg)
	} else {
		w.l.print(w.level, msg)
	}
	return len(p), nil
}
