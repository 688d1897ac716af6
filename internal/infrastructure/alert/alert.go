// Package alert implements ports.Alerter for a terminal and for headless runs.
package alert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/cafeteria/portal-system/internal/core/ports"
)

var (
	_ ports.Alerter = (*Console)(nil)
	_ ports.Alerter = (*Log)(nil)
	_ ports.Alerter = Fanout(nil)
)

// New picks the console alerter when stdin is a terminal and the log alerter otherwise.
func New(log zerolog.Logger) ports.Alerter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewConsole(os.Stdin, os.Stdout)
	}
	return NewLog(log)
}

// Console prints each alert and blocks until the operator answers.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Success(title, message string) { c.acknowledge("OK", title, message) }
func (c *Console) Error(title, message string)   { c.acknowledge("ERROR", title, message) }
func (c *Console) Warning(title, message string) { c.acknowledge("WARNING", title, message) }
func (c *Console) Info(title, message string)    { c.acknowledge("INFO", title, message) }

func (c *Console) Confirm(title, message string) bool {
	return c.ConfirmWith(title, message, "Yes", "No")
}

// ConfirmWith asks until the answer starts like yes or no. End of input counts as no.
func (c *Console) ConfirmWith(title, message, yes, no string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		fmt.Fprintf(c.out, "[CONFIRM] %s\n%s\n%s/%s: ", title, message, yes, no)
		line, err := c.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		switch {
		case answer != "" && strings.HasPrefix(strings.ToLower(yes), strings.ToLower(answer)):
			return true
		case answer != "" && strings.HasPrefix(strings.ToLower(no), strings.ToLower(answer)):
			return false
		case err != nil:
			return false
		}
	}
}

func (c *Console) acknowledge(level, title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s\n%s\nPress Enter to continue...", level, title, message)
	_, _ = c.in.ReadString('\n')
	fmt.Fprintln(c.out)
}

// Log writes alerts to the structured log. Confirmations are always declined.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "alert").Logger()}
}

func (l *Log) Success(title, message string) {
	l.log.Info().Str("level_hint", "success").Str("title", title).Msg(message)
}

func (l *Log) Error(title, message string) {
	l.log.Error().Str("title", title).Msg(message)
}

func (l *Log) Warning(title, message string) {
	l.log.Warn().Str("title", title).Msg(message)
}

func (l *Log) Info(title, message string) {
	l.log.Info().Str("title", title).Msg(message)
}

func (l *Log) Confirm(title, message string) bool {
	return l.ConfirmWith(title, message, "Yes", "No")
}

func (l *Log) ConfirmWith(title, message, yes, no string) bool {
	l.log.Warn().Str("title", title).Str("answer", no).Msgf("%s (no operator, answering %q instead of %q)", message, no, yes)
	return false
}

// Fanout delivers every notification to each alerter in order. Confirmations
// are answered by the last one.
type Fanout []ports.Alerter

func (f Fanout) Success(title, message string) {
	for _, a := range f {
		a.Success(title, message)
	}
}

func (f Fanout) Error(title, message string) {
	for _, a := range f {
		a.Error(title, message)
	}
}

func (f Fanout) Warning(title, message string) {
	for _, a := range f {
		a.Warning(title, message)
	}
}

func (f Fanout) Info(title, message string) {
	for _, a := range f {
		a.Info(title, message)
	}
}

func (f Fanout) Confirm(title, message string) bool {
	return f.ConfirmWith(title, message, "Yes", "No")
}

func (f Fanout) ConfirmWith(title, message, yes, no string) bool {
	if len(f) == 0 {
		return false
	}
	return f[len(f)-1].ConfirmWith(title, message, yes, no)
}
