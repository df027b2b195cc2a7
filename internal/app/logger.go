package app

import (
	"fmt"
	"io"
)

// Logger is the console capability handed to the pipeline stages.
// Silent mode swaps in NopLogger instead of muting process-wide output.
type Logger interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NewLogger returns a NopLogger when silent, otherwise a console logger
// writing informational lines to out and warnings/errors to errOut.
func NewLogger(silent bool, out, errOut io.Writer) Logger {
	if silent {
		return NopLogger{}
	}
	return &ConsoleLogger{out: out, errOut: errOut}
}

// ConsoleLogger writes styled lines.
type ConsoleLogger struct {
	out    io.Writer
	errOut io.Writer
}

func (l *ConsoleLogger) Infof(format string, args ...any) {
	fmt.Fprintln(l.out, Styles.Dim.Render(fmt.Sprintf(format, args...)))
}

func (l *ConsoleLogger) Successf(format string, args ...any) {
	fmt.Fprintln(l.out, Styles.Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func (l *ConsoleLogger) Warnf(format string, args ...any) {
	fmt.Fprintln(l.errOut, Styles.Warning.Render(fmt.Sprintf(format, args...)))
}

func (l *ConsoleLogger) Errorf(format string, args ...any) {
	fmt.Fprintln(l.errOut, Styles.Error.Render(fmt.Sprintf(format, args...)))
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Infof(string, ...any)    {}
func (NopLogger) Successf(string, ...any) {}
func (NopLogger) Warnf(string, ...any)    {}
func (NopLogger) Errorf(string, ...any)   {}
