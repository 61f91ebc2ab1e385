// Package logging defines the injectable logger sink the orchestrator and
// its collaborators use (spec §6): Debug is optional, Warn and Error are
// required. It follows the teacher's convention of threading a
// *log.Logger through constructors and panicking on a nil logger
// (see bt_device.go's newBtDeviceImpl, bt_manager.go's NewBTManager), but
// exposes that behind a small interface so tests can inject a recorder
// and the demo binary can inject a rotating file logger.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the sink the orchestrator logs through. Debug is best-effort;
// Warn and Error are always called on their respective code paths.
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// StdLogger adapts a standard library *log.Logger to the Logger interface,
// the same shape of wrapper the teacher passes around as *log.Logger
// directly; here it is one constructor away from any io.Writer target.
type StdLogger struct {
	base *log.Logger
}

// NewStdLogger wraps base. A nil base panics, matching the teacher's
// constructors ("logger must be non nil").
func NewStdLogger(base *log.Logger) *StdLogger {
	if base == nil {
		panic("logging: base logger cannot be nil")
	}
	return &StdLogger{base: base}
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.base.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
}

func (l *StdLogger) Warn(format string, args ...interface{}) {
	l.base.Output(2, "WARN "+fmt.Sprintf(format, args...))
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.base.Output(2, "ERROR "+fmt.Sprintf(format, args...))
}

// NewRotatingLogger backs a StdLogger with a lumberjack-rotated file,
// for long-running demo/CLI processes that should not grow an unbounded
// log file.
func NewRotatingLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) *StdLogger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return NewStdLogger(log.New(writer, "", log.LstdFlags|log.Lmicroseconds))
}

var (
	defaultMu     sync.Mutex
	defaultLogger Logger
)

// Default returns the process-global logger used when an orchestrator is
// constructed without an explicit one (spec §6).
func Default() Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewStdLogger(log.New(os.Stderr, "walkingpad: ", log.LstdFlags))
	}
	return defaultLogger
}

// SetDefault overrides the process-global default logger.
func SetDefault(l Logger) {
	if l == nil {
		panic("logging: default logger cannot be nil")
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
