package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a staged command execution
type RunnerConfig struct {
	Title     string            // Command title (e.g., "CubeMX to Makefile")
	Command   string            // Full command (e.g., "cube2make ./Blinky ~/STM32Cube")
	Params    map[string]string // Parameters to display in header
	StepNames []string          // Names for each step, in order
	Verbose   bool              // Whether to show the preview box
	Quiet     bool              // Suppress header, steps and result boxes
	Output    io.Writer         // Output writer (default: os.Stdout)
	Width     int               // Render width (default: terminal width)

	// Hints returns troubleshooting tips for a failed run
	Hints func(err error) []string
}

// Runner drives the header, step lines and result box of a command.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	preview  *Preview
	width    int
}

// Operation is the work performed by a Runner. It reports progress through
// onStep and returns the details shown in the success box.
type Operation func(onStep StepCallback) ([]Detail, error)

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	header := NewHeader(config.Title, config.Command, config.Params).SetWidth(width)

	var progress *Progress
	if len(config.StepNames) > 0 {
		progress = NewProgress("", len(config.StepNames)).
			SetWidth(width).
			SetStepNames(config.StepNames)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Run prints the header, executes op and prints the result box.
func (r *Runner) Run(ctx context.Context, op Operation) ([]Detail, error) {
	start := time.Now()

	if !r.config.Quiet {
		_, _ = fmt.Fprintln(r.output, r.header.Render())
		_, _ = fmt.Fprintln(r.output)
	}

	details, err := op(r.stepCallback())
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(start)

	if r.config.Quiet {
		return details, err
	}

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		r.printFailure(err)
		return details, err
	}

	details = append(details, Detail{Key: "Duration", Value: duration.Round(time.Millisecond).String()})
	result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	if r.config.Verbose && r.preview != nil {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintln(r.output, r.preview.SetWidth(r.width).Render())
	}

	return details, nil
}

// SetPreview stores generated content shown after the result in verbose
// mode, cut after maxLines lines (0 shows everything).
func (r *Runner) SetPreview(title, content string, maxLines int) {
	r.preview = NewPreview(title, content).SetMaxLines(maxLines)
}

// Progress returns the step tracker, nil when the runner has no steps
func (r *Runner) Progress() *Progress {
	return r.progress
}

func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		if r.config.Quiet {
			return
		}

		line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, line)
		case StepRunning:
			// Overwritten when the step finishes
			_, _ = fmt.Fprint(r.output, line+"\r")
		}
	}
}

func (r *Runner) printFailure(err error) {
	var hints []string
	if r.config.Hints != nil {
		hints = r.config.Hints(err)
	}
	result := NewFailureResult(r.config.Title+" failed", err, hints).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}
