package html

import (
	"fmt"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/state"
	"github.com/goliatone/go-uicatalog/pkg/widgets"
)

const pageFormID = "page"

// page remembers what a rendered document offered for posting.
type page struct {
	pass   uint64
	forms  map[string]bool
	fields []field
}

// field is a visible interactive widget of the page.
type field struct {
	id   string
	kind model.WidgetKind
	form string
}

type frameNode struct {
	frame    render.Frame
	children []*frameNode
}

func buildTree(frames []render.Frame) []*frameNode {
	var roots, stack []*frameNode
	for _, frame := range frames {
		node := &frameNode{frame: frame}
		for len(stack) > frame.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		if _, ok := frame.Section(); ok {
			stack = append(stack, node)
		}
	}
	return roots
}

// pageBuilder renders one document and collects its postable fields.
type pageBuilder struct {
	surface *Surface
	page    page
	forms   []map[string]any
	title   string
}

func (s *Surface) render(pass uint64, frames []render.Frame) (string, page, error) {
	b := &pageBuilder{
		surface: s,
		page:    page{pass: pass, forms: make(map[string]bool)},
		title:   s.title,
	}

	var body strings.Builder
	for _, root := range buildTree(frames) {
		if section, ok := root.frame.Section(); ok && b.title == "" {
			b.title = section.Title()
		}
		html, err := b.node(root)
		if err != nil {
			return "", page{}, err
		}
		body.WriteString(html)
	}

	document, err := s.templates.RenderTemplate("page", map[string]any{
		"title":      b.title,
		"lang":       s.lang,
		"action":     s.action,
		"pass":       pass,
		"stylesheet": s.stylesheet,
		"page_form":  pageFormID,
		"hidden":     hiddenFields(render.MergeHiddenFields(nil, render.PassField(pass))),
		"forms":      b.forms,
		"body":       body.String(),
	})
	if err != nil {
		return "", page{}, fmt.Errorf("html: render page: %w", err)
	}
	return document, b.page, nil
}

func hiddenFields(fields map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, f := range sorted {
		out = append(out, map[string]any{"name": f.Name, "value": f.Value})
	}
	return out
}

func (b *pageBuilder) node(n *frameNode) (string, error) {
	if !n.frame.Visible {
		return "", nil
	}
	if d, ok := n.frame.Descriptor(); ok {
		return b.widget(n.frame, d)
	}
	section, _ := n.frame.Section()
	return b.section(n, section)
}

func (b *pageBuilder) children(n *frameNode) ([]string, error) {
	out := make([]string, 0, len(n.children))
	for _, child := range n.children {
		html, err := b.node(child)
		if err != nil {
			return nil, err
		}
		if html != "" {
			out = append(out, html)
		}
	}
	return out, nil
}

func (b *pageBuilder) section(n *frameNode, section *model.Section) (string, error) {
	layout := section.Layout()
	data := map[string]any{
		"id":       section.ID(),
		"title":    section.Title(),
		"kind":     string(layout.Kind),
		"columns":  layout.Columns,
		"expanded": layout.Expanded,
		"border":   layout.Border,
		"level":    min(n.frame.Depth+1, 6),
	}

	if section.IsForm() {
		b.page.forms[section.ID()] = true
		b.forms = append(b.forms, map[string]any{
			"id": section.ID(),
			"hidden": hiddenFields(render.MergeHiddenFields(nil,
				render.FormField(section.ID()),
				render.PassField(b.page.pass),
			)),
		})
		data["submitted"] = n.frame.FormStatus == state.StatusSubmitted
	}

	if layout.Kind == model.SectionTabs {
		tabs, err := b.tabs(n)
		if err != nil {
			return "", err
		}
		data["tabs"] = tabs
	} else {
		children, err := b.children(n)
		if err != nil {
			return "", err
		}
		data["children"] = children
	}

	html, err := b.surface.templates.RenderTemplate("components/section", data)
	if err != nil {
		return "", fmt.Errorf("html: render section %q: %w", section.ID(), err)
	}
	return html, nil
}

func (b *pageBuilder) tabs(n *frameNode) ([]map[string]any, error) {
	var tabs []map[string]any
	for _, child := range n.children {
		if !child.frame.Visible {
			continue
		}
		title := child.frame.ID()
		var html string
		if section, ok := child.frame.Section(); ok {
			if section.Title() != "" {
				title = section.Title()
			}
			parts, err := b.children(child)
			if err != nil {
				return nil, err
			}
			html = strings.Join(parts, "")
		} else {
			rendered, err := b.node(child)
			if err != nil {
				return nil, err
			}
			html = rendered
		}
		tabs = append(tabs, map[string]any{"id": child.frame.ID(), "title": title, "html": html})
	}
	return tabs, nil
}

func (b *pageBuilder) widget(f render.Frame, d *model.Descriptor) (string, error) {
	component := b.surface.component(d)
	data, err := widgetData(f, d)
	if err != nil {
		return "", fmt.Errorf("html: widget %q: %w", d.ID(), err)
	}
	data["component"] = component

	html, err := b.surface.templates.RenderTemplate("components/"+component, data)
	if err != nil {
		return "", fmt.Errorf("html: render widget %q: %w", d.ID(), err)
	}
	if d.Kind() == model.KindTextDisplay {
		return html, nil
	}

	b.page.fields = append(b.page.fields, field{id: d.ID(), kind: d.Kind(), form: f.Form})

	wrapped, err := b.surface.templates.RenderTemplate("components/field", map[string]any{
		"id":        d.ID(),
		"component": component,
		"control":   html,
		"help":      d.Help(),
		"errors":    f.Errors,
	})
	if err != nil {
		return "", fmt.Errorf("html: render field %q: %w", d.ID(), err)
	}
	return wrapped, nil
}

// component picks the template for d: the widget registry first, then the
// built-in template of the kind.
func (s *Surface) component(d *model.Descriptor) string {
	if name, ok := s.widgets.Resolve(d); ok {
		return name
	}
	switch d.Kind() {
	case model.KindSingleSelect, model.KindRadio:
		return widgets.WidgetSelect
	case model.KindMultiSelect:
		return widgets.WidgetChips
	case model.KindMultiLineInput:
		return widgets.WidgetTextarea
	case model.KindToggle:
		return widgets.WidgetToggle
	case model.KindProgress:
		return widgets.WidgetBar
	case model.KindTable:
		return widgets.WidgetGrid
	case model.KindTextDisplay:
		switch style := d.TextStyle(); {
		case style.Alert():
			return widgets.WidgetAlert
		case style == model.TextCode:
			return widgets.WidgetCode
		case style == model.TextMarkdown:
			return widgets.WidgetMarkdown
		}
	}
	return string(d.Kind())
}

// widgetData flattens a frame into the plain values component templates read.
func widgetData(f render.Frame, d *model.Descriptor) (map[string]any, error) {
	form := f.Form
	if form != "" {
		form = "form-" + form
	} else {
		form = pageFormID
	}
	data := map[string]any{
		"id":          d.ID(),
		"kind":        string(d.Kind()),
		"label":       d.Label(),
		"placeholder": d.Placeholder(),
		"form":        form,
	}
	c := d.Constraints()

	switch d.Kind() {
	case model.KindTextDisplay:
		data["style"] = string(d.TextStyle())
		data["body"] = f.Text
		data["language"] = d.Language()
		if d.TextStyle() == model.TextMarkdown {
			html, err := Markdown(f.Text)
			if err != nil {
				return nil, err
			}
			data["html"] = html
		}
	case model.KindSingleLineInput, model.KindMultiLineInput, model.KindColorInput:
		data["value"], _ = f.Value.(string)
		if c.MaxLength != nil {
			data["max_length"] = *c.MaxLength
		}
		rows := d.Hint("rows")
		if _, err := strconv.Atoi(rows); err != nil {
			rows = "3"
		}
		data["rows"] = rows
	case model.KindNumericInput, model.KindSlider:
		v, _ := f.Value.(float64)
		data["value"] = formatFloat(v)
		data["display"] = formatNumber(v)
		data["min"] = optionalFloat(c.Min)
		data["max"] = optionalFloat(c.Max)
		data["step"] = optionalFloat(c.Step)
	case model.KindSingleSelect, model.KindRadio:
		selected, _ := f.Value.(string)
		data["value"] = selected
		data["options"] = options(c.Options, func(o string) bool { return o == selected })
	case model.KindMultiSelect:
		picked, _ := f.Value.([]string)
		set := make(map[string]bool, len(picked))
		for _, p := range picked {
			set[p] = true
		}
		data["options"] = options(c.Options, func(o string) bool { return set[o] })
	case model.KindCheckbox, model.KindToggle:
		data["checked"] = f.Value == true
	case model.KindButton, model.KindSubmitButton:
		data["pressed"] = f.Value == true
	case model.KindDateInput, model.KindTimeInput:
		data["value"] = fmt.Sprint(f.Value)
		if c.MinDate != nil {
			data["min"] = c.MinDate.String()
		}
		if c.MaxDate != nil {
			data["max"] = c.MaxDate.String()
		}
	case model.KindFileInput:
		accept := make([]string, len(c.Accept))
		for i, ext := range c.Accept {
			accept[i] = "." + ext
		}
		data["accept"] = strings.Join(accept, ",")
		if file, _ := f.Value.(*model.File); file != nil {
			entry := map[string]any{"name": file.Name}
			if file.Size > 0 {
				entry["size"] = humanize.Bytes(uint64(file.Size))
			}
			data["file"] = entry
		}
	case model.KindMetric:
		metric, _ := f.Value.(model.Metric)
		direction := ""
		switch metric.DeltaDirection() {
		case 1:
			direction = "up"
		case -1:
			direction = "down"
		}
		data["metric"] = map[string]any{"value": metric.Value, "delta": metric.Delta, "direction": direction}
	case model.KindProgress:
		lo, hi := 0.0, 100.0
		if c.Min != nil {
			lo = *c.Min
		}
		if c.Max != nil {
			hi = *c.Max
		}
		v, _ := f.Value.(float64)
		pct := 0.0
		if hi > lo {
			pct = (v - lo) / (hi - lo) * 100
		}
		data["percent"] = int(pct + 0.5)
	case model.KindTable:
		table, _ := f.Value.(model.Table)
		rows := make([][]string, len(table.Rows))
		for i, row := range table.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = formatCell(cell)
			}
			rows[i] = cells
		}
		data["table"] = map[string]any{"columns": table.Columns, "rows": rows, "static": table.Static}
	case model.KindChart:
		chart, _ := f.Value.(model.Chart)
		data["chart"] = chartView(chart)
	}
	return data, nil
}

func options(list []string, selected func(string) bool) []map[string]any {
	out := make([]map[string]any, len(list))
	for i, option := range list {
		out[i] = map[string]any{"value": option, "selected": selected(option)}
	}
	return out
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(v)
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	case string:
		return v
	}
	return fmt.Sprint(cell)
}
