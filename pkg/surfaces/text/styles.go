package text

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// Styles holds the lipgloss styles of one output. Styles are bound to a
// renderer so the color profile follows the writer rather than stdout.
type Styles struct {
	Green  lipgloss.Style
	Yellow lipgloss.Style
	Red    lipgloss.Style
	Blue   lipgloss.Style
	Purple lipgloss.Style
	Dim    lipgloss.Style
	Fg     lipgloss.Style
	Header lipgloss.Style
	Bold   lipgloss.Style
	Title  lipgloss.Style
	Box    lipgloss.Style
	Code   lipgloss.Style
}

// NewStyles builds the palette on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Green:  r.NewStyle().Foreground(ColorGreen),
		Yellow: r.NewStyle().Foreground(ColorYellow),
		Red:    r.NewStyle().Foreground(ColorRed),
		Blue:   r.NewStyle().Foreground(ColorBlue),
		Purple: r.NewStyle().Foreground(ColorPurple),
		Dim:    r.NewStyle().Foreground(ColorDim),
		Fg:     r.NewStyle().Foreground(ColorFg),
		Header: r.NewStyle().Foreground(ColorHeader).Bold(true),
		Bold:   r.NewStyle().Foreground(ColorFg).Bold(true),
		Title:  r.NewStyle().Foreground(ColorHeader).Bold(true).Underline(true),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			PaddingLeft(1).
			PaddingRight(1),
		Code: r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorDim).
			PaddingLeft(1).
			Foreground(ColorBlue),
	}
}

// Heading renders text with the header style and an underline.
func (s Styles) Heading(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", s.Header.Render(text), s.Dim.Render(line))
}

// RenderBox wraps content in a rounded-border box with an optional title.
func (s Styles) RenderBox(title string, content string) string {
	if title != "" {
		return s.Box.Render(s.Header.Render(title) + "\n" + content)
	}
	return s.Box.Render(content)
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func (s Styles) RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := s.Green
	if pct < 0.33 {
		style = s.Red
	} else if pct < 0.66 {
		style = s.Yellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderTable renders a simple aligned table with a header separator line.
// Columns are padded to the widest visible cell, ANSI sequences excluded.
func (s Styles) RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	const colGap = 2
	var b strings.Builder

	for i, h := range headers {
		b.WriteString(s.Header.Render(h))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(h)+colGap))
		}
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(s.Dim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}

	for _, row := range rows {
		b.WriteString("\n")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(cell)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", max(0, widths[i]-lipgloss.Width(cell))+colGap))
			}
		}
	}
	return b.String()
}
