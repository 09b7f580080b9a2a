package charts

import (
	"html/template"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

// AssetsURL is the echarts script every page embedding snippets must load
const AssetsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// gap is how echarts marks a missing point
const gap = "-"

const (
	width  = "100%"
	height = "420px"
)

// Snippet is a rendered chart
type Snippet struct {
	Title   string
	Element template.HTML
	Script  template.HTML
}

func snippet(title string, r render.Renderer) Snippet {
	s := r.RenderSnippet()
	return Snippet{
		Title:   title,
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
	}
}

func globalOpts(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	}
}

// lineData converts values, mapping NaN to a gap
func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			data[i] = opts.LineData{Value: gap}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}

// padded places values at offset within a series of length n, gaps elsewhere
func padded(values []float64, offset, n int) []opts.LineData {
	data := make([]opts.LineData, n)
	for i := range data {
		data[i] = opts.LineData{Value: gap}
	}
	for i, v := range values {
		if j := offset + i; j >= 0 && j < n && !math.IsNaN(v) {
			data[j] = opts.LineData{Value: v}
		}
	}
	return data
}

func barData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}
