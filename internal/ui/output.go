// Package ui renders command status lines for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// NodeURL is the web address of a node.
const NodeURL = "https://app.tana.inc?nodeid="

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)

	// bannerStyle for per-slide progress
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("99")).
			Padding(0, 1)
)

// Field is one "Label: value" row of a header.
type Field struct {
	Label string
	Value string
}

// FormatHeader renders a boxed header with a title and metadata rows.
func FormatHeader(w io.Writer, title string, fields ...Field) {
	content := titleStyle.Render(title)
	for _, f := range fields {
		content += fmt.Sprintf("\n%s %s", dimStyle.Render(f.Label+":"), f.Value)
	}
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatStep renders a muted progress line.
func FormatStep(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(format, args...)))
}

// FormatSlideProgress renders the banner for slide i of total.
func FormatSlideProgress(w io.Writer, i, total int, title string) {
	banner := fmt.Sprintf(" SLIDE %d/%d ", i, total)
	if title == "" {
		title = dimStyle.Render("(untitled)")
	}
	fmt.Fprintf(w, "%s %s\n", bannerStyle.Render(banner), title)
}

// FormatRescale reports that an image was shrunk to fit the upload limit.
func FormatRescale(w io.Writer, zoom float64, encoded, max int) {
	msg := fmt.Sprintf("image too large (%d > %d bytes), retrying at zoom %.2f", encoded, max, zoom)
	fmt.Fprintln(w, warnStyle.Render(msg))
}

// FormatSubmitted reports a created node and its web address.
func FormatSubmitted(w io.Writer, what, nodeID string) {
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), what, dimStyle.Render(NodeURL+nodeID))
}

// FormatDone renders the closing success line.
func FormatDone(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// FormatError renders an error line.
func FormatError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: ")+err.Error())
}
