// Package spinner renders pipeline progress on the terminal: one bar that
// advances once per stage, with the running stage name beside it.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Terminal control sequences and status symbols.
const (
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
	carriageReturn = "\r"

	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"

	symbolSuccess = "✓"
	symbolFailure = "✗"

	barFilled = "█"
	barEmpty  = "░"
)

// ProgressConfig holds configuration options for a progress bar.
type ProgressConfig struct {
	// Total is the number of steps. Values <= 0 become 1.
	Total int

	// Message is the text displayed before the bar.
	Message string

	// Width of the bar in characters. Defaults to 20.
	Width int

	// ShowCount displays current/total (e.g., "(3/8)").
	ShowCount bool

	// ShowElapsed displays elapsed time since Start (e.g., "(2.4s)").
	ShowElapsed bool

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer

	// IsTTY overrides terminal detection on Writer when set.
	// Off a terminal every update is printed on its own line without color.
	IsTTY *bool
}

// DefaultProgressConfig returns the configuration used for pipeline runs.
func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		Total:       1,
		Message:     "Generating reports",
		Width:       20,
		ShowCount:   true,
		ShowElapsed: true,
		Writer:      os.Stderr,
	}
}

// ProgressBar tracks completed steps out of a known total.
type ProgressBar struct {
	mu sync.Mutex

	config    ProgressConfig
	current   int
	step      string
	startTime time.Time
	active    bool
	isTTY     bool

	// lastOutput is the length of the last inline render, for clearing.
	lastOutput int
}

// NewProgress creates a progress bar with the default configuration.
func NewProgress(total int, message string) *ProgressBar {
	cfg := DefaultProgressConfig()
	cfg.Total = total
	cfg.Message = message
	return NewProgressWithConfig(cfg)
}

// NewProgressWithConfig creates a progress bar with custom configuration.
func NewProgressWithConfig(config ProgressConfig) *ProgressBar {
	if config.Total <= 0 {
		config.Total = 1
	}
	if config.Width <= 0 {
		config.Width = 20
	}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	isTTY := isTerminalWriter(config.Writer)
	if config.IsTTY != nil {
		isTTY = *config.IsTTY
	}

	return &ProgressBar{config: config, isTTY: isTTY}
}

// isTerminalWriter reports whether w is an *os.File attached to a terminal.
func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Total returns the number of steps.
func (p *ProgressBar) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.Total
}

// Current returns the number of completed steps.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// IsActive reports whether Start has been called without Complete or Fail.
func (p *ProgressBar) IsActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Start shows the bar at zero. Calling Start twice is a no-op.
func (p *ProgressBar) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return
	}
	p.active = true
	p.startTime = time.Now()
	p.current = 0

	if p.isTTY {
		fmt.Fprint(p.config.Writer, hideCursor)
	}
	p.render()
}

// Begin marks step as running without advancing the count.
func (p *ProgressBar) Begin(step string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return
	}
	p.step = step
	p.render()
}

// Increment advances the bar by one completed step, clamped to Total.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return
	}
	if p.current < p.config.Total {
		p.current++
	}
	p.render()
}

// Complete stops the bar and prints a success line.
func (p *ProgressBar) Complete(message string) {
	p.finish(message, symbolSuccess, colorGreen)
}

// Fail stops the bar and prints a failure line.
func (p *ProgressBar) Fail(message string) {
	p.finish(message, symbolFailure, colorRed)
}

func (p *ProgressBar) finish(message, symbol, color string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if message == "" {
		message = p.config.Message + " complete"
	}

	if p.active && p.isTTY {
		p.clearLine()
		fmt.Fprint(p.config.Writer, showCursor)
	}
	p.active = false

	var elapsed string
	if p.config.ShowElapsed && !p.startTime.IsZero() {
		elapsed = " " + formatElapsed(time.Since(p.startTime))
	}

	if p.isTTY {
		fmt.Fprintf(p.config.Writer, "%s%s%s %s%s\n", color, symbol, colorReset, message, elapsed)
	} else {
		fmt.Fprintf(p.config.Writer, "%s %s%s\n", symbol, message, elapsed)
	}
}

// render draws the current state. Caller must hold the mutex.
func (p *ProgressBar) render() {
	output := p.buildOutput()
	if !p.isTTY {
		fmt.Fprintln(p.config.Writer, output)
		return
	}
	p.clearLine()
	fmt.Fprint(p.config.Writer, output)
	p.lastOutput = len(output)
}

// buildOutput formats: Message [████████░░░░░░░░░░░░] (3/8) workbook (2.4s)
// Caller must hold the mutex.
func (p *ProgressBar) buildOutput() string {
	var parts []string
	if p.config.Message != "" {
		parts = append(parts, p.config.Message)
	}
	parts = append(parts, p.buildBar())
	if p.config.ShowCount {
		parts = append(parts, fmt.Sprintf("(%d/%d)", p.current, p.config.Total))
	}
	if p.step != "" {
		parts = append(parts, p.step)
	}
	if p.config.ShowElapsed && !p.startTime.IsZero() {
		parts = append(parts, formatElapsed(time.Since(p.startTime)))
	}
	return strings.Join(parts, " ")
}

// buildBar returns "[████░░░░]" scaled to Width. Caller must hold the mutex.
func (p *ProgressBar) buildBar() string {
	width := p.config.Width
	filled := p.current * width / p.config.Total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled) + "]"
}

// clearLine blanks the last inline render. Caller must hold the mutex.
func (p *ProgressBar) clearLine() {
	if p.lastOutput > 0 {
		fmt.Fprint(p.config.Writer, carriageReturn+strings.Repeat(" ", p.lastOutput)+carriageReturn)
		p.lastOutput = 0
	}
}

// formatElapsed renders "(1.2s)" under a minute and "(1m 30s)" above.
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%.1fs)", d.Seconds())
	}
	return fmt.Sprintf("(%dm %ds)", int(d.Minutes()), int(d.Seconds())%60)
}
