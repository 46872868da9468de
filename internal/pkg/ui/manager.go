// Package ui provides terminal output components for GitQuill.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	ShowSpinner(text string) Spinner
	ShowMessage(message string)
	ShowInfo(message string)
	ShowSuccess(message string)
	ShowWarning(message string)
	ShowError(err error)
}

// spinnerCharSets maps config spinner style names to briandowns/spinner
// character sets.
var spinnerCharSets = map[string]int{
	"dots": 11,
	"line": 14,
	"arc":  34,
}

// DefaultManager implements the Manager interface with lipgloss styling
// and an animated spinner.
type DefaultManager struct {
	colorEnabled bool
	spinnerStyle string
	out          io.Writer
	errOut       io.Writer
	styles       *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	message    lipgloss.Style
	info       lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
}

// NewDefaultManager creates a new DefaultManager with the specified options.
func NewDefaultManager(colorEnabled bool, spinnerStyle string) *DefaultManager {
	m := &DefaultManager{
		colorEnabled: colorEnabled,
		spinnerStyle: spinnerStyle,
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
	m.initStyles()
	return m
}

// initStyles initializes the lipgloss styles.
func (m *DefaultManager) initStyles() {
	if !m.colorEnabled {
		m.styles = &styles{
			message:    lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			warning:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
		}
		return
	}

	m.styles = &styles{
		message: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
	}
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	charSet, ok := spinnerCharSets[m.spinnerStyle]
	if !ok {
		charSet = spinnerCharSets["dots"]
	}

	s := spinner.New(spinner.CharSets[charSet], 100*time.Millisecond,
		spinner.WithWriter(m.errOut))
	s.Suffix = " " + text
	return &terminalSpinner{s: s}
}

// ShowMessage prints the generated commit message line.
func (m *DefaultManager) ShowMessage(message string) {
	fmt.Fprintln(m.out, m.styles.message.Render(message))
}

// ShowInfo prints an informational message.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.styles.info.Render(message))
}

// ShowSuccess prints a success message.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("[OK] "+message))
}

// ShowWarning prints a warning message.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, m.styles.warning.Render("Warning: "+message))
}

// ShowError prints an error message to stderr.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render("Error: "+err.Error()))
}

// terminalSpinner wraps briandowns/spinner behind the Spinner interface.
type terminalSpinner struct {
	s *spinner.Spinner
}

func (t *terminalSpinner) Start() {
	t.s.Start()
}

func (t *terminalSpinner) Stop() {
	t.s.Stop()
}

func (t *terminalSpinner) UpdateText(text string) {
	t.s.Suffix = " " + text
}

// PlainManager implements Manager without animation or color. It is used
// when stdout is not a terminal and in tests.
type PlainManager struct {
	out    io.Writer
	errOut io.Writer
}

// NewPlainManager creates a PlainManager writing to the given streams.
func NewPlainManager(out, errOut io.Writer) *PlainManager {
	return &PlainManager{out: out, errOut: errOut}
}

// ShowSpinner returns a no-op spinner.
func (m *PlainManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowMessage prints the generated commit message line.
func (m *PlainManager) ShowMessage(message string) {
	fmt.Fprintln(m.out, message)
}

// ShowInfo prints an informational message.
func (m *PlainManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, message)
}

// ShowSuccess prints a success message.
func (m *PlainManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, message)
}

// ShowWarning prints a warning message.
func (m *PlainManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, "Warning: "+message)
}

// ShowError prints an error message to stderr.
func (m *PlainManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(m.errOut, "Error: %s\n", err.Error())
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start()            {}
func (s *noopSpinner) Stop()             {}
func (s *noopSpinner) UpdateText(string) {}
