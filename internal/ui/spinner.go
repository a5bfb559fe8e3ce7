package ui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned by WaitWithSpinner when the operator presses Ctrl+C
var ErrInterrupted = errors.New("interrupted")

// waitDoneMsg carries the result of the blocking call
type waitDoneMsg struct{ err error }

// waitModel shows a spinner and elapsed time until the blocking call returns
type waitModel struct {
	spinner     spinner.Model
	label       string
	started     time.Time
	err         error
	done        bool
	interrupted bool
	fn          func() error
}

func newWaitModel(label string, fn func() error) waitModel {
	return waitModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(PrimaryColor)),
		),
		label:   label,
		started: time.Now(),
		fn:      fn,
	}
}

// Init implements tea.Model
func (m waitModel) Init() tea.Cmd {
	fn := m.fn
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return waitDoneMsg{err: fn()}
	})
}

// Update implements tea.Model
func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case waitDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m waitModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	elapsed := time.Since(m.started).Round(time.Second)
	return fmt.Sprintf("  %s %s %s\n", m.spinner.View(), m.label, StepNoteStyle.Render("("+elapsed.String()+")"))
}

// result reports the outcome once the program has quit
func (m waitModel) result() error {
	if m.interrupted {
		return ErrInterrupted
	}
	return m.err
}

// WaitWithSpinner runs fn while animating a spinner with label. When stdout
// is not a terminal it prints the label once and runs fn directly.
func WaitWithSpinner(w io.Writer, label string, fn func() error) error {
	if !IsTerminal() {
		_, _ = fmt.Fprintf(w, "  %s...\n", label)
		return fn()
	}

	final, err := tea.NewProgram(newWaitModel(label, fn), tea.WithOutput(w)).Run()
	if err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return final.(waitModel).result()
}
