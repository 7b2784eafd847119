// Package rlog is the runtime's internal logging shim: a small leveled
// Logger adapted from the teacher's logutil.Log/Logf free functions into an
// interface a Store can hold and a test can swap out, colorized with
// fatih/color the same way action.NewDevLogger colors observer events.
package rlog

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Logger is the leveled logging surface a Store uses for its own
// diagnostics (dispatch failures, external-override rejections, and so
// on). It deliberately has no Fatal/Panic level: a running store never
// decides to exit the process on its caller's behalf.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger writes colorized, leveled lines to stderr.
type stdLogger struct {
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
}

// New returns the default Logger, writing to stderr.
func New() Logger {
	return &stdLogger{
		debug: color.New(color.Faint),
		info:  color.New(color.FgCyan),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
	}
}

func (l *stdLogger) Debugf(format string, args ...any) { l.line(l.debug, "DEBUG", format, args...) }
func (l *stdLogger) Infof(format string, args ...any)  { l.line(l.info, "INFO", format, args...) }
func (l *stdLogger) Warnf(format string, args ...any)  { l.line(l.warn, "WARN", format, args...) }
func (l *stdLogger) Errorf(format string, args ...any) { l.line(l.err, "ERROR", format, args...) }

func (l *stdLogger) line(c *color.Color, level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Fprintf(os.Stderr, "[%s] %s\n", level, msg)
}

// Discard is a Logger that drops everything, for tests that don't want
// diagnostics on stderr.
func Discard() Logger { return discardLogger{} }

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}
