package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a multi-step command
type RunnerConfig struct {
	Title     string             // Command title (e.g., "Provision Printer")
	Command   string             // Full command (e.g., "epson-cfg provision 42")
	Params    []Detail           // Parameters to display in header
	StepNames []string           // Names for each step
	Hints     func(error) string // Troubleshooting hint for a failure (optional)
	Output    io.Writer          // Output writer (default: os.Stdout)
}

// Runner orchestrates the header → steps → result flow of a command
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
	warnings []string
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()
	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params).SetWidth(width),
		progress: NewProgress("", config.StepNames).SetWidth(width),
		output:   config.Output,
		width:    width,
	}
}

// Operation is the work driven by a Runner. It reports progress through
// onStep and returns the details shown in the success box.
type Operation func(onStep StepCallback) ([]Detail, error)

// Warn records a warning shown after a successful run
func (r *Runner) Warn(message string) {
	r.warnings = append(r.warnings, message)
}

// Run executes the operation with UI updates
func (r *Runner) Run(operation Operation) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(r.onStep)
	duration := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		var tips []string
		if r.config.Hints != nil {
			tips = TipsFromHint(r.config.Hints(err))
		}
		result := NewFailureResult(r.config.Title+" failed", err, tips).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
		return err
	}

	details = append(details, Detail{Key: "Duration", Value: duration.String()})
	result := NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	for _, w := range r.warnings {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintln(r.output, NewWarningResult(w, nil).SetWidth(r.width).Render())
	}
	return nil
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}
	r.progress.UpdateStep(stepNumber, status, message)

	line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
	if status == StepRunning && IsTerminal() {
		// Overwritten when the step finishes
		_, _ = fmt.Fprint(r.output, line+"\r")
		return
	}
	if status != StepRunning {
		_, _ = fmt.Fprintln(r.output, line)
	}
}

// Progress returns the runner's step list
func (r *Runner) Progress() *Progress {
	return r.progress
}

// --- Simple helpers for commands that don't need a Runner ---

// PrintCommandHeader prints a styled command header
func PrintCommandHeader(w io.Writer, title, command string, params []Detail) {
	_, _ = fmt.Fprintln(w, NewHeader(title, command, params).Render())
	_, _ = fmt.Fprintln(w)
}

// PrintSuccess prints a styled success result
func PrintSuccess(w io.Writer, title string, details []Detail) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, NewSuccessResult(title, details).Render())
}

// PrintFailure prints a styled failure result
func PrintFailure(w io.Writer, title string, err error, troubleshooting []string) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, NewFailureResult(title, err, troubleshooting).Render())
}

// PrintWarning prints a styled warning result
func PrintWarning(w io.Writer, title string, details []Detail) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, NewWarningResult(title, details).Render())
}
