// Package text draws catalog passes as styled terminal text. The surface is
// static: it prints each completed pass and never produces events.
package text

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/state"
)

const (
	defaultWidth    = 100
	defaultBarWidth = 24
	defaultMaxRows  = 10
)

// Option configures the surface.
type Option func(*Surface)

// WithWidth sets the total width shared by column layouts.
func WithWidth(width int) Option {
	return func(s *Surface) {
		if width > 0 {
			s.width = width
		}
	}
}

// WithBarWidth sets the width of progress bars.
func WithBarWidth(width int) Option {
	return func(s *Surface) {
		if width > 1 {
			s.barWidth = width
		}
	}
}

// WithMaxRows caps the rows printed for scrollable tables. Static tables are
// always printed in full.
func WithMaxRows(rows int) Option {
	return func(s *Surface) {
		if rows > 0 {
			s.maxRows = rows
		}
	}
}

// WithRenderer overrides the lipgloss renderer, for example to force a color
// profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(s *Surface) {
		if r != nil {
			s.renderer = r
		}
	}
}

// Surface prints passes to a writer.
type Surface struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	styles   Styles
	width    int
	barWidth int
	maxRows  int
	frames   []render.Frame
	open     bool
}

var (
	_ render.Surface   = (*Surface)(nil)
	_ render.PassHooks = (*Surface)(nil)
)

// New returns a text surface writing to out.
func New(out io.Writer, opts ...Option) *Surface {
	s := &Surface{
		out:      out,
		width:    defaultWidth,
		barWidth: defaultBarWidth,
		maxRows:  defaultMaxRows,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		s.renderer = lipgloss.NewRenderer(out)
	}
	s.styles = NewStyles(s.renderer)
	return s
}

// Factory adapts New to render.SurfaceFactory.
func Factory(cfg render.SurfaceConfig) (render.Surface, error) {
	if cfg.Output == nil {
		return nil, fmt.Errorf("text: output writer is required")
	}
	return New(cfg.Output), nil
}

func (s *Surface) BeginPass(context.Context, uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = s.frames[:0]
	s.open = true
	return nil
}

// Draw buffers the frame until EndPass. Frames drawn outside a pass are
// printed immediately.
func (s *Surface) Draw(_ context.Context, frame render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return s.write(s.Render([]render.Frame{frame}))
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *Surface) EndPass(_ context.Context, pass uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	output := s.Render(s.frames)
	if pass > 1 {
		output = s.styles.Dim.Render(fmt.Sprintf("── pass %d ──", pass)) + "\n" + output
	}
	return s.write(output)
}

// PollEvents always reports no events.
func (s *Surface) PollEvents(context.Context) ([]render.Event, error) {
	return nil, nil
}

func (s *Surface) write(output string) error {
	if output == "" {
		return nil
	}
	if _, err := io.WriteString(s.out, output+"\n"); err != nil {
		return fmt.Errorf("text: write: %w", err)
	}
	return nil
}

type frameNode struct {
	frame    render.Frame
	children []*frameNode
}

// Render lays out one pass worth of frames. Hidden frames are omitted.
func (s *Surface) Render(frames []render.Frame) string {
	var roots []*frameNode
	var stack []*frameNode
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

	blocks := make([]string, 0, len(roots))
	for _, root := range roots {
		if block := s.node(root, s.width); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}

func (s *Surface) node(n *frameNode, width int) string {
	if !n.frame.Visible {
		return ""
	}
	if d, ok := n.frame.Descriptor(); ok {
		return s.widget(n.frame, d, width)
	}
	section, _ := n.frame.Section()
	return s.section(n, section, width)
}

func (s *Surface) section(n *frameNode, section *model.Section, width int) string {
	layout := section.Layout()
	title := section.Title()

	if layout.Kind == model.SectionColumns && len(n.children) > 0 {
		return s.titled(n.frame.Depth, title, s.columns(n.children, layout.Columns, width))
	}

	childWidth := width
	switch {
	case layout.Kind == model.SectionForm, layout.Kind == model.SectionSidebar, layout.Border:
		childWidth = max(10, width-4)
	case layout.Kind == model.SectionExpander:
		childWidth = max(10, width-2)
	}
	var parts []string
	for _, child := range n.children {
		if layout.Kind == model.SectionTabs {
			if block := s.tab(child, childWidth); block != "" {
				parts = append(parts, block)
			}
			continue
		}
		if block := s.node(child, childWidth); block != "" {
			parts = append(parts, block)
		}
	}
	content := strings.Join(parts, "\n")

	switch {
	case layout.Kind == model.SectionForm:
		if n.frame.FormStatus == state.StatusSubmitted {
			title = strings.TrimSpace(title + " " + s.styles.Green.Render("✔ submitted"))
		}
		return s.styles.RenderBox(title, content)
	case layout.Kind == model.SectionSidebar, layout.Border:
		return s.styles.RenderBox(title, content)
	case layout.Kind == model.SectionTabs:
		return s.titled(n.frame.Depth, title, s.tabBar(n.children)+"\n"+content)
	case layout.Kind == model.SectionExpander:
		marker := "▸"
		if layout.Expanded {
			marker = "▾"
		}
		indented := s.renderer.NewStyle().PaddingLeft(2).Render(content)
		return s.styles.Bold.Render(marker+" "+title) + "\n" + indented
	}
	return s.titled(n.frame.Depth, title, content)
}

func (s *Surface) titled(depth int, title, content string) string {
	if title == "" {
		return content
	}
	heading := s.styles.Bold.Render(title)
	if depth <= 1 {
		heading = s.styles.Heading(title)
	}
	if content == "" {
		return heading
	}
	return heading + "\n" + content
}

func (s *Surface) columns(children []*frameNode, count, width int) string {
	if count < 1 {
		count = len(children)
	}
	colWidth := max(10, width/count)
	column := s.renderer.NewStyle().Width(colWidth - 1).MarginRight(1)

	blocks := make([]string, 0, len(children))
	for _, child := range children {
		if !child.frame.Visible {
			continue
		}
		blocks = append(blocks, column.Render(s.node(child, colWidth-1)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (s *Surface) tabBar(children []*frameNode) string {
	labels := make([]string, 0, len(children))
	for _, child := range children {
		if !child.frame.Visible {
			continue
		}
		labels = append(labels, tabTitle(child))
	}
	return s.styles.Dim.Render("│ ") + strings.Join(labels, s.styles.Dim.Render(" │ ")) + s.styles.Dim.Render(" │")
}

func (s *Surface) tab(child *frameNode, width int) string {
	if !child.frame.Visible {
		return ""
	}
	if _, ok := child.frame.Section(); !ok {
		return s.node(child, width)
	}
	// The tab bar already names the tab, so only its children are drawn.
	var parts []string
	for _, grandchild := range child.children {
		if block := s.node(grandchild, width); block != "" {
			parts = append(parts, block)
		}
	}
	body := strings.Join(parts, "\n")
	return s.styles.Purple.Render("["+tabTitle(child)+"]") + "\n" + body
}

func tabTitle(n *frameNode) string {
	if section, ok := n.frame.Section(); ok && section.Title() != "" {
		return section.Title()
	}
	return n.frame.ID()
}
