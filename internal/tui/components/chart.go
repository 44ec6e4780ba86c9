package components

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/labels"
	"github.com/theirongolddev/edupulse/internal/model"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

// NoDataText replaces a chart that has nothing to plot.
const NoDataText = "Нет данных за период"

// Line is one named series on a line chart.
type Line struct {
	Name   string
	Series model.Series
	Color  lipgloss.Color
}

// ChartOptions sizes a line chart in terminal cells.
type ChartOptions struct {
	Width  int
	Height int
	// YMax fixes the top of the Y axis; zero scales to the data.
	YMax    float64
	YSuffix string
}

// AxisFormat returns the date formatter for a chart of the given width.
// Narrow charts use the short DD.MM form.
func AxisFormat(widthCols int) func(string) string {
	if labels.ColumnsToPixels(widthCols) < labels.NarrowBreakpoint {
		return cli.FormatShortDate
	}
	return cli.FormatDate
}

// AxisLabels returns the X labels of dates for a chart widthCols wide.
// One selector serves the whole axis.
func AxisLabels(dates []string, widthCols int) []string {
	sel := labels.New(labels.ColumnsToPixels(widthCols), AxisFormat(widthCols))
	return sel.Labels(dates)
}

// LineChart renders one or more date series as a braille line chart with a
// legend underneath.
func LineChart(lines []Line, opts ChartOptions) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	dates := unionDates(lines)
	if len(dates) == 0 || opts.Width < 20 || opts.Height < 4 {
		return dim.Render(NoDataText)
	}

	times := make([]time.Time, len(dates))
	for i, d := range dates {
		times[i], _ = time.Parse(model.DateLayout, d)
	}
	start, end := times[0], times[len(times)-1]
	if !end.After(start) {
		end = start.Add(24 * time.Hour)
	}

	yMax := opts.YMax
	if yMax <= 0 {
		yMax = niceCeil(seriesMax(lines))
	}

	c := tslc.New(opts.Width, opts.Height)
	c.SetXStep(1)
	c.SetYStep(2)
	c.AxisStyle = lipgloss.NewStyle().Foreground(t.Border)
	c.LabelStyle = lipgloss.NewStyle().Foreground(t.TextMuted)
	c.SetTimeRange(start, end)
	c.SetViewTimeRange(start, end)
	c.SetYRange(0, yMax)
	c.SetViewYRange(0, yMax)
	c.Model.XLabelFormatter = axisLabelFormatter(dates, AxisLabels(dates, opts.Width))
	c.Model.YLabelFormatter = func(_ int, v float64) string {
		return strconv.FormatFloat(v, 'f', 0, 64) + opts.YSuffix
	}

	for _, l := range lines {
		c.SetDataSetStyle(l.Name, lipgloss.NewStyle().Foreground(l.Color))
		for i, d := range dates {
			v, ok := l.Series[d]
			if !ok {
				continue
			}
			c.PushDataSet(l.Name, tslc.TimePoint{Time: times[i], Value: v})
		}
	}
	c.DrawBrailleAll()

	return c.View() + "\n" + legend(lines)
}

// axisLabelFormatter maps each axis column to the latest series point at or
// before it. A column shows the newest non-empty label among the points it
// advanced past, so a label is never dropped when columns skip points.
func axisLabelFormatter(dates, axis []string) linechart.LabelFormatter {
	last := -1
	return func(i int, v float64) string {
		if i == 0 {
			last = -1
		}
		day := time.Unix(int64(v), 0).UTC().Format(model.DateLayout)
		idx := sort.SearchStrings(dates, day)
		if idx == len(dates) || dates[idx] != day {
			idx--
		}
		if idx <= last {
			return ""
		}
		from := last
		last = idx
		for j := idx; j > from; j-- {
			if axis[j] != "" {
				return axis[j]
			}
		}
		return ""
	}
}

func legend(lines []Line) string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		dot := lipgloss.NewStyle().Foreground(l.Color).Background(t.Surface).Render("●")
		parts = append(parts, dot+text.Render(" "+l.Name))
	}
	return strings.Join(parts, text.Render("  "))
}

func unionDates(lines []Line) []string {
	seen := make(map[string]struct{})
	for _, l := range lines {
		for d := range l.Series {
			seen[d] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func seriesMax(lines []Line) float64 {
	peak := 0.0
	for _, l := range lines {
		for _, v := range l.Series {
			peak = math.Max(peak, v)
		}
	}
	return peak
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(v)))
	switch f := v / pow; {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

// Bar renders a horizontal bar of value relative to peak.
func Bar(value, peak float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width <= 0 {
		return ""
	}
	filled := 0
	if peak > 0 {
		filled = int(math.Round(value / peak * float64(width)))
	}
	filled = min(max(filled, 0), width)

	on := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	off := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	return on.Render(strings.Repeat("█", filled)) + off.Render(strings.Repeat("░", width-filled))
}
