// Package alert emits human-visible notices: color-coded console lines and
// desktop notifications.
package alert

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Severity selects the color of a console line.
type Severity int

const (
	SeverityAlert Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Console prints alert lines. Alerts and errors are red, successes green,
// warnings yellow.
type Console struct {
	out     io.Writer
	mu      sync.Mutex
	palette map[Severity]*color.Color
}

// NewConsole writes to out, or to stdout when out is nil. Colors are
// disabled automatically when out is not a terminal.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = color.Output
	}
	noColor := out != color.Output && out != os.Stdout

	palette := map[Severity]*color.Color{
		SeverityAlert:   color.New(color.FgHiRed, color.Bold),
		SeveritySuccess: color.New(color.FgHiGreen),
		SeverityWarning: color.New(color.FgHiYellow),
		SeverityError:   color.New(color.FgHiRed),
	}
	if noColor {
		for _, c := range palette {
			c.DisableColor()
		}
	}

	return &Console{out: out, palette: palette}
}

// Print writes one line with the color for severity.
func (c *Console) Print(severity Severity, format string, args ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.palette[severity]
	if !ok {
		p = c.palette[SeverityAlert]
	}
	_, err := p.Fprintln(c.out, fmt.Sprintf(format, args...))
	return err
}

func (c *Console) Alert(format string, args ...interface{}) error {
	return c.Print(SeverityAlert, format, args...)
}

func (c *Console) Success(format string, args ...interface{}) error {
	return c.Print(SeveritySuccess, format, args...)
}

func (c *Console) Warning(format string, args ...interface{}) error {
	return c.Print(SeverityWarning, format, args...)
}

func (c *Console) Error(format string, args ...interface{}) error {
	return c.Print(SeverityError, format, args...)
}
