package html

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// Chart viewport in SVG user units.
const (
	chartWidth   = 480.0
	chartHeight  = 180.0
	chartPadding = 6.0
)

var chartPalette = []string{"#83a598", "#8ec07c", "#fabd2f", "#d3869b", "#fb4934", "#fe8019"}

// chartView lays a chart out as SVG shapes. Line and area charts become
// polylines, bar charts grouped rectangles and scatter charts dots plotting
// the first series against the second.
func chartView(c model.Chart) map[string]any {
	view := map[string]any{
		"type":   string(c.Type),
		"width":  chartWidth,
		"height": chartHeight,
	}
	if len(c.Points) == 0 {
		view["empty"] = true
		return view
	}

	lo, hi := c.Bounds()
	if lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	y := func(v float64) float64 {
		return chartHeight - chartPadding - (v-lo)/(hi-lo)*(chartHeight-2*chartPadding)
	}
	x := func(v float64) float64 {
		return chartPadding + (v-lo)/(hi-lo)*(chartWidth-2*chartPadding)
	}
	span := chartWidth - 2*chartPadding
	n := len(c.Points)

	series := make([]map[string]any, 0, len(c.Series))
	switch c.Type {
	case model.ChartScatter:
		dots := make([]map[string]any, 0, n)
		for _, point := range c.Points {
			if len(point) < 2 {
				continue
			}
			dots = append(dots, map[string]any{"x": coord(x(point[0])), "y": coord(y(point[1]))})
		}
		name := ""
		if len(c.Series) >= 2 {
			name = c.Series[0] + " × " + c.Series[1]
		}
		series = append(series, map[string]any{"name": name, "color": chartPalette[0], "dots": dots})
	case model.ChartBar:
		group := span / float64(n)
		width := group / float64(max(1, len(c.Series)))
		for j, name := range c.Series {
			bars := make([]map[string]any, 0, n)
			for i, point := range c.Points {
				if j >= len(point) {
					continue
				}
				top, bottom := y(point[j]), y(0)
				if top > bottom {
					top, bottom = bottom, top
				}
				bars = append(bars, map[string]any{
					"x":      coord(chartPadding + float64(i)*group + float64(j)*width),
					"y":      coord(top),
					"width":  coord(width * 0.9),
					"height": coord(bottom - top),
				})
			}
			series = append(series, map[string]any{"name": name, "color": chartPalette[j%len(chartPalette)], "bars": bars})
		}
	default:
		step := span
		if n > 1 {
			step = span / float64(n-1)
		}
		for j, name := range c.Series {
			points := make([]string, 0, n)
			for i, point := range c.Points {
				if j < len(point) {
					points = append(points, coord(chartPadding+float64(i)*step)+","+coord(y(point[j])))
				}
			}
			entry := map[string]any{"name": name, "color": chartPalette[j%len(chartPalette)], "points": strings.Join(points, " ")}
			if c.Type == model.ChartArea && len(points) > 0 {
				base := coord(y(0))
				first := strings.SplitN(points[0], ",", 2)[0]
				last := strings.SplitN(points[len(points)-1], ",", 2)[0]
				entry["area"] = first + "," + base + " " + strings.Join(points, " ") + " " + last + "," + base
			}
			series = append(series, entry)
		}
	}
	view["series"] = series
	return view
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
