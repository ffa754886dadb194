package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	panelLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// PanelField is a labelled line of a preview panel.
type PanelField struct {
	Label string
	Value string
}

// RenderPanel renders a bordered box with a title, labelled fields and an
// optional free text body.
func RenderPanel(title string, fields []PanelField, body string) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(title))

	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	for _, f := range fields {
		label := panelLabelStyle.Width(width + 1).Render(f.Label + ":")
		b.WriteString("\n" + label + " " + f.Value)
	}

	if body = strings.TrimSpace(body); body != "" {
		b.WriteString("\n\n" + body)
	}
	return panelStyle.Render(b.String())
}

func PrintPanel(w io.Writer, title string, fields []PanelField, body string) {
	_, _ = fmt.Fprintln(w, RenderPanel(title, fields, body))
}
