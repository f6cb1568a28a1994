// Package ui provides terminal UI components for the cube2make CLI.
//
// The components follow a "run once and exit" pattern: they render styled
// output with Lipgloss but never wait for user interaction, apart from the
// overwrite confirmation of "config init".
//
// # Architecture
//
//   - Header: command banner showing the operation and its parameters
//   - Progress: progress bar and step list with per-step status
//   - Result: success, failure and warning boxes
//   - Preview: bordered head of a generated file for verbose mode
//
// The Runner orchestrates the header → steps → result flow:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "CubeMX to Makefile",
//	    Command:   "cube2make ./Blinky ~/STM32Cube",
//	    StepNames: convert.StageNames(),
//	})
//
//	_, err := runner.Run(ctx, func(onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// zap logging is silent unless CUBE2MAKE_LOG_LEVEL or --log-level is set,
// so the curated UI output is displayed cleanly. Logs go to stderr.
package ui
