package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/srg/blonboard/internal/onboarding"
)

// statusPrinter writes status messages from the service to the terminal.
// It is called from BLE handler goroutines.
type statusPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	info *color.Color
	ok   *color.Color
	fail *color.Color
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{
		out:  out,
		info: color.New(color.FgCyan),
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed),
	}
}

// Status implements onboarding.StatusFunc
func (p *statusPrinter) Status(kind onboarding.StatusKind, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind == onboarding.ErrorMessage {
		p.fail.Fprintln(p.out, msg)
		return
	}
	p.info.Fprintln(p.out, msg)
}

// Result prints whether the service could be started
func (p *statusPrinter) Result(started bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if started {
		p.ok.Fprintln(p.out, "Service successfully started")
		return
	}
	p.fail.Fprintln(p.out, "Service not started")
}

// Printf writes a plain line
func (p *statusPrinter) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
