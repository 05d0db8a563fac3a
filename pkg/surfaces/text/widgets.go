package text

import (
	"fmt"
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

func (s *Surface) widget(f render.Frame, d *model.Descriptor, width int) string {
	if d.Kind() == model.KindTextDisplay {
		return s.textDisplay(d, f.Text, width)
	}

	label := s.styles.Bold.Render(d.Label())
	var body string
	switch d.Kind() {
	case model.KindSingleLineInput:
		body = label + ": " + s.inputText(d, f.Value)
	case model.KindMultiLineInput:
		body = label + "\n" + s.renderer.NewStyle().PaddingLeft(2).Render(s.inputText(d, f.Value))
	case model.KindNumericInput:
		body = label + ": " + FormatNumber(asFloat(f.Value))
	case model.KindSlider:
		lo, hi := bounds(d.Constraints())
		body = label + ": " + FormatNumber(asFloat(f.Value)) +
			s.styles.Dim.Render(fmt.Sprintf(" (%s – %s)", FormatNumber(lo), FormatNumber(hi)))
	case model.KindSingleSelect, model.KindRadio:
		selected, _ := f.Value.(string)
		body = label + "\n" + s.choices(d.Constraints().Options, func(o string) bool { return o == selected }, "(•)", "( )")
	case model.KindMultiSelect:
		picked, _ := f.Value.([]string)
		body = label + "\n" + s.choices(d.Constraints().Options, func(o string) bool { return containsString(picked, o) }, "[x]", "[ ]")
	case model.KindCheckbox:
		mark := "[ ]"
		if f.Value == true {
			mark = s.styles.Green.Render("[x]")
		}
		body = mark + " " + label
	case model.KindToggle:
		mark := s.styles.Dim.Render("○ off")
		if f.Value == true {
			mark = s.styles.Green.Render("● on")
		}
		body = label + ": " + mark
	case model.KindDateInput, model.KindTimeInput:
		body = label + ": " + fmt.Sprint(f.Value)
	case model.KindColorInput:
		hex, _ := f.Value.(string)
		swatch := s.renderer.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
		body = label + ": " + swatch + " " + hex
	case model.KindButton:
		body = s.button(d.Label(), f.Value == true)
	case model.KindSubmitButton:
		body = s.button(d.Label()+" ⏎", f.Value == true)
	case model.KindFileInput:
		body = label + ": " + s.file(d, f.Value)
	case model.KindMetric:
		metric, _ := f.Value.(model.Metric)
		body = label + "\n" + s.metric(metric)
	case model.KindProgress:
		lo, hi := bounds(d.Constraints())
		pct := 0.0
		if hi > lo {
			pct = (asFloat(f.Value) - lo) / (hi - lo)
		}
		body = label + "\n" + s.styles.RenderProgress(pct, s.barWidth)
	case model.KindTable:
		table, _ := f.Value.(model.Table)
		body = label + "\n" + s.table(table)
	case model.KindChart:
		chart, _ := f.Value.(model.Chart)
		body = label + "\n" + s.chart(chart, width)
	default:
		body = label + ": " + fmt.Sprint(f.Value)
	}

	if help := d.Help(); help != "" {
		body += "\n" + s.styles.Dim.Render(help)
	}
	for _, msg := range f.Errors {
		body += "\n" + s.styles.Red.Render("✖ "+msg)
	}
	return body
}

func (s *Surface) textDisplay(d *model.Descriptor, body string, width int) string {
	switch d.TextStyle() {
	case model.TextTitle:
		return s.styles.Title.Render(body)
	case model.TextHeader:
		return s.styles.Heading(body)
	case model.TextSubheader:
		return s.styles.Bold.Render(body)
	case model.TextCaption:
		return s.styles.Dim.Render(body)
	case model.TextCode:
		code := s.styles.Code.Render(body)
		if lang := d.Language(); lang != "" {
			return s.styles.Dim.Render(lang) + "\n" + code
		}
		return code
	case model.TextDivider:
		return s.styles.Dim.Render(strings.Repeat("─", max(1, width)))
	case model.TextSuccess:
		return s.styles.Green.Render("✔ " + body)
	case model.TextInfo:
		return s.styles.Blue.Render("ℹ " + body)
	case model.TextWarning:
		return s.styles.Yellow.Render("⚠ " + body)
	case model.TextError:
		return s.styles.Red.Render("✖ " + body)
	}
	return strings.TrimRight(body, "\n")
}

func (s *Surface) inputText(d *model.Descriptor, value any) string {
	text, _ := value.(string)
	if text != "" {
		return text
	}
	if placeholder := d.Placeholder(); placeholder != "" {
		return s.styles.Dim.Render(placeholder)
	}
	return s.styles.Dim.Render("—")
}

func (s *Surface) choices(options []string, selected func(string) bool, on, off string) string {
	parts := make([]string, 0, len(options))
	for _, option := range options {
		if selected(option) {
			parts = append(parts, s.styles.Green.Render(on)+" "+option)
			continue
		}
		parts = append(parts, off+" "+option)
	}
	return strings.Join(parts, "\n")
}

func (s *Surface) button(label string, pressed bool) string {
	if pressed {
		return s.styles.Green.Render("[ " + label + " ]")
	}
	return "[ " + label + " ]"
}

func (s *Surface) file(d *model.Descriptor, value any) string {
	accept := d.Constraints().Accept
	hint := ""
	if len(accept) > 0 {
		hint = s.styles.Dim.Render(" (" + strings.Join(accept, ", ") + ")")
	}
	f, _ := value.(*model.File)
	if f == nil {
		return s.styles.Dim.Render("no file") + hint
	}
	if f.Size > 0 {
		return fmt.Sprintf("%s %s", f.Name, s.styles.Dim.Render(humanize.Bytes(uint64(f.Size))))
	}
	return f.Name
}

func (s *Surface) metric(m model.Metric) string {
	out := s.styles.Bold.Render(m.Value)
	switch m.DeltaDirection() {
	case 1:
		out += " " + s.styles.Green.Render("▲ "+m.Delta)
	case -1:
		out += " " + s.styles.Red.Render("▼ "+m.Delta)
	default:
		if m.Delta != "" {
			out += " " + s.styles.Dim.Render(m.Delta)
		}
	}
	return out
}

func (s *Surface) table(t model.Table) string {
	shown := t
	if !t.Static {
		shown = t.Head(s.maxRows)
	}
	rows := make([][]string, len(shown.Rows))
	for i, row := range shown.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = FormatCell(cell)
		}
		rows[i] = cells
	}
	out := s.styles.RenderTable(shown.Columns, rows)
	if hidden := len(t.Rows) - len(shown.Rows); hidden > 0 {
		out += "\n" + s.styles.Dim.Render(fmt.Sprintf("… %s more rows", humanize.Comma(int64(hidden))))
	}
	return out
}

func (s *Surface) chart(c model.Chart, width int) string {
	if len(c.Points) == 0 {
		return s.styles.Dim.Render("no data")
	}
	lo, hi := c.Bounds()
	if c.Type == model.ChartScatter && len(c.Series) >= 2 {
		return s.styles.Dim.Render(fmt.Sprintf("%s × %s: %s points in [%s, %s]",
			c.Series[0], c.Series[1], humanize.Comma(int64(len(c.Points))), FormatNumber(lo), FormatNumber(hi)))
	}

	nameWidth := 0
	for _, name := range c.Series {
		nameWidth = max(nameWidth, lipgloss.Width(name))
	}
	points := c.Points
	if limit := width - nameWidth - 1; limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	palette := []lipgloss.Style{s.styles.Blue, s.styles.Green, s.styles.Yellow, s.styles.Purple, s.styles.Red}
	lines := make([]string, 0, len(c.Series))
	for j, name := range c.Series {
		var spark strings.Builder
		for _, point := range points {
			if j < len(point) {
				spark.WriteRune(sparkRune(point[j], lo, hi))
			}
		}
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(name))
		lines = append(lines, name+pad+" "+palette[j%len(palette)].Render(spark.String()))
	}
	return strings.Join(lines, "\n")
}

func sparkRune(v, lo, hi float64) rune {
	if hi <= lo {
		return sparkLevels[len(sparkLevels)/2]
	}
	idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkLevels)-1)))
	return sparkLevels[min(max(idx, 0), len(sparkLevels)-1)]
}

// FormatNumber prints whole numbers with thousands separators and keeps the
// fraction of the others.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}

// FormatCell prints a table cell.
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case float64:
		return FormatNumber(v)
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	case string:
		return v
	}
	return fmt.Sprint(cell)
}

// bounds defaults to the 0..100 range of progress bars.
func bounds(c model.Constraints) (float64, float64) {
	lo, hi := 0.0, 100.0
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		hi = *c.Max
	}
	return lo, hi
}

func asFloat(value any) float64 {
	f, _ := value.(float64)
	return f
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
