package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Confirm asks a yes/no question and reports whether the answer was yes.
// Anything other than "y" or "yes" counts as no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	promptStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(question+" [y/N]: "))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}

// ReadPassword prompts for a password without echo. When stdin is not a
// terminal the password is read as one line.
func ReadPassword(out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PasswordInstructions is the box that walks the operator through setting
// the web config password by hand
func PasswordInstructions(webURL, username, oldPassword, newPassword string) *Result {
	return NewWarningResult("Set the printer password", []Detail{
		{Key: "Open", Value: webURL},
		{Key: "Log in", Value: username + " / " + oldPassword},
		{Key: "Then", Value: "click [Password] at the bottom of the sidebar"},
		{Key: "Old password", Value: oldPassword},
		{Key: "New password", Value: newPassword},
	})
}

// WaitForEnter prints prompt and blocks until a line is read from in
func WaitForEnter(in io.Reader, out io.Writer, prompt string) {
	_, _ = fmt.Fprint(out, lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render(prompt))
	_, _ = bufio.NewReader(in).ReadString('\n')
}
