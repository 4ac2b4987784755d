package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// OK prints a success line to stdout.
func OK(msg string) {
	fmt.Println(SuccessStyle.Render("✔ " + msg))
}

// Fail prints an error line to stderr.
func Fail(msg string) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✖ "+msg))
}

// Panel prints lines inside a rounded border.
func Panel(lines []string) {
	fmt.Println(PanelStyle.Render(strings.Join(lines, "\n")))
}
