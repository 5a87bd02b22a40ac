// Package logger provides the leveled logging used across saxslinecut.
// Library packages accept a Logger so the embedding application decides where
// messages go; tests pass Discard.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level is the severity of a message
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Logger is what the engine logs through
type Logger interface {
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// Leveled writes "LEVEL [component] message" lines to an io.Writer and drops
// messages below its level. Children created with With share the writer and
// the level.
type Leveled struct {
	state     *levelState
	out       *log.Logger
	component string
}

type levelState struct {
	mu    sync.RWMutex
	level Level
}

// New creates a logger writing to w with standard timestamps
func New(w io.Writer, level Level) *Leveled {
	return &Leveled{
		state: &levelState{level: level},
		out:   log.New(w, "", log.LstdFlags),
	}
}

// NewStdout creates a logger writing to standard output
func NewStdout(level Level) *Leveled {
	return New(os.Stdout, level)
}

// With returns a child logger tagging its lines with component
func (l *Leveled) With(component string) *Leveled {
	return &Leveled{state: l.state, out: l.out, component: component}
}

// SetLevel changes the level for this logger and all its children
func (l *Leveled) SetLevel(level Level) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// Level returns the current level
func (l *Leveled) Level() Level {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

func (l *Leveled) logf(level Level, format string, a []interface{}) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, a...)
	if l.component != "" {
		l.out.Printf("%s [%s] %s", level, l.component, msg)
		return
	}
	l.out.Printf("%s %s", level, msg)
}

func (l *Leveled) Debugf(format string, a ...interface{}) { l.logf(LevelDebug, format, a) }
func (l *Leveled) Infof(format string, a ...interface{})  { l.logf(LevelInfo, format, a) }
func (l *Leveled) Errorf(format string, a ...interface{}) { l.logf(LevelError, format, a) }

type discard struct{}

func (discard) Debugf(string, ...interface{}) {}
func (discard) Infof(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}

// Discard drops every message
var Discard Logger = discard{}
