// Package log is a small leveled wrapper around the standard logger shared by
// both rclink binaries.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level orders messages by importance; lower levels are more verbose.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
	DisabledLevel
)

// Debug, Info and Error are what the rest of rclink logs through.
var (
	Debug = &Logger{DebugLevel}
	Info  = &Logger{InfoLevel}
	Error = &Logger{ErrorLevel}
)

type globalState struct {
	currentLevel  Level
	defaultLogger *log.Logger
}

// Logger writes messages at a fixed level.
type Logger struct {
	level Level
}

var (
	mu    sync.RWMutex
	state = globalState{
		currentLevel:  InfoLevel,
		defaultLogger: newDefaultLogger(os.Stderr),
	}
)

func newDefaultLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func globals() globalState {
	mu.RLock()
	defer mu.RUnlock()
	return state
}

// SetLevel sets the minimum level that gets written.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	state.currentLevel = level
}

// SetOutput redirects every logger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	state.defaultLogger = newDefaultLogger(w)
}

// Printf writes a formatted message to the log.
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Println writes a line to the log.
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Printf writes a formatted message to the log.
func (l *Logger) Printf(format string, v ...interface{}) {
	g := globals()

	if l.level < g.currentLevel {
		return
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Printf(l.prefix()+format, v...)
	}
}

// Println writes a line to the log.
func (l *Logger) Println(v ...interface{}) {
	g := globals()

	if l.level < g.currentLevel {
		return
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Print(l.prefix() + fmt.Sprintln(v...))
	}
}

func (l *Logger) prefix() string {
	switch l.level {
	case DebugLevel:
		return "DEBUG "
	case ErrorLevel:
		return "ERROR "
	default:
		return "INFO "
	}
}
