// Package ui provides terminal UI components for the epson-cfg CLI.
//
// Components follow a "run once and exit" pattern: they render styled output
// with Lipgloss but do not take over the terminal. The one exception is
// WaitWithSpinner, which runs a small Bubble Tea program while a blocking call
// (such as the wait for a restarting printer) is in progress.
//
// # Components
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure/warning boxes with details and troubleshooting
//   - Runner: Drives header → steps → result for multi-step commands
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Provision Printer",
//	    Command:   "epson-cfg provision 42",
//	    Params:    []ui.Detail{{Key: "Printer", Value: "192.168.1.50"}},
//	    StepNames: []string{"Fetch configuration", "Apply settings"},
//	})
//
//	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// Logging is controlled by EPSONCFG_LOG_LEVEL. When unset, zap is silent so
// the curated UI output is displayed cleanly.
package ui
