// Package chart renders the dashboard line charts as SVG.
package chart

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/labels"
	"github.com/theirongolddev/edupulse/internal/model"
)

// PlaceholderText is drawn when a chart has no points.
const PlaceholderText = "Нет данных для графика"

// Default chart size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Series colours.
var (
	ColorDAU       = drawing.ColorFromHex("4361ee")
	ColorWAU       = drawing.ColorFromHex("2ecc71")
	ColorMAU       = drawing.ColorFromHex("f39c12")
	ColorRetention = drawing.ColorFromHex("4361ee")
)

// Options sizes a chart. Zero values take the defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

type line struct {
	name   string
	color  drawing.Color
	values []float64
}

// Audience draws DAU, WAU and MAU over the union of their dates.
func Audience(w io.Writer, a model.AudienceMetrics, opts Options) error {
	merged := model.Series{}
	for _, s := range []model.Series{a.DAU, a.WAU, a.MAU} {
		for k := range s {
			merged[k] = 0
		}
	}
	dates := merged.Dates()
	if len(dates) == 0 {
		return Placeholder(w, opts)
	}

	lines := []line{
		{"DAU", ColorDAU, a.DAU.Values(dates)},
		{"WAU", ColorWAU, a.WAU.Values(dates)},
		{"MAU", ColorMAU, a.MAU.Values(dates)},
	}
	maxY := 0.0
	for _, l := range lines {
		for _, v := range l.values {
			maxY = math.Max(maxY, v)
		}
	}
	if maxY <= 0 {
		maxY = 1
	}

	yAxis := chart.YAxis{
		Range:          &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		ValueFormatter: func(v interface{}) string { return formatCount(v) },
	}
	return render(w, dates, lines, yAxis, true, opts)
}

// Retention draws the cohort retention trend on a fixed 0..100% axis.
func Retention(w io.Writer, trend model.Series, opts Options) error {
	dates := trend.Dates()
	if len(dates) == 0 {
		return Placeholder(w, opts)
	}

	ticks := make([]chart.Tick, 0, 6)
	for v := 0; v <= 100; v += 20 {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d%%", v)})
	}
	yAxis := chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: 100},
		Ticks: ticks,
	}
	lines := []line{{"Retention", ColorRetention, trend.Values(dates)}}
	return render(w, dates, lines, yAxis, false, opts)
}

func render(w io.Writer, dates []string, lines []line, yAxis chart.YAxis, legend bool, opts Options) error {
	width, height := opts.size()

	// One selector per render: the viewport class is fixed for the whole axis.
	sel := labels.New(width, cli.FormatDate)
	axis := sel.Labels(dates)

	xs := make([]float64, len(dates))
	ticks := make([]chart.Tick, 0, len(dates))
	for i := range dates {
		xs[i] = float64(i)
		if axis[i] != "" {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: axis[i]})
		}
	}

	// go-chart needs a non-empty X range and two points per series.
	xMax := float64(len(dates) - 1)
	if xMax < 1 {
		xMax = 1
	}

	series := make([]chart.Series, 0, len(lines))
	for _, l := range lines {
		sx, sy := xs, l.values
		if len(sx) == 1 {
			sx = []float64{xs[0], xs[0] + 0.001}
			sy = []float64{l.values[0], l.values[0]}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.name,
			XValues: sx,
			YValues: sy,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: l.color,
				DotWidth:    2,
				DotColor:    l.color,
			},
		})
	}

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 28}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: ticks,
		},
		YAxis:  yAxis,
		Series: series,
	}
	if legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// Placeholder draws an empty chart frame with PlaceholderText centred.
func Placeholder(w io.Writer, opts Options) error {
	width, height := opts.size()

	r, err := chart.SVG(width, height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontSize(14)
	r.SetFontColor(drawing.ColorFromHex("6c757d"))

	box := r.MeasureText(PlaceholderText)
	r.Text(PlaceholderText, (width-box.Width())/2, height/2)
	return r.Save(w)
}

func formatCount(v interface{}) string {
	if f, ok := v.(float64); ok {
		return cli.FormatNumber(int64(math.Round(f)))
	}
	return fmt.Sprint(v)
}
