// Package labels decides which points of a dense time series get a visible
// X-axis label.
package labels

// NarrowBreakpoint is the width, in logical pixels, below which a viewport
// is considered narrow.
const NarrowBreakpoint = 992

const (
	// maxDenseLabels is the series length up to which every point is labelled.
	maxDenseLabels = 12

	narrowTargetLabels = 6
	wideTargetLabels   = 10

	// pixelsPerColumn approximates a terminal cell width in logical pixels.
	pixelsPerColumn = 8
)

// Selector picks axis labels for one render pass. The viewport class is
// fixed when the selector is built, so a resize mid-render cannot mix
// densities within one axis.
type Selector struct {
	narrow bool
	format func(string) string
}

// New builds a selector for a viewport of widthPx logical pixels.
// A nil format leaves date keys as they are.
func New(widthPx int, format func(string) string) Selector {
	if format == nil {
		format = func(s string) string { return s }
	}
	return Selector{
		narrow: widthPx < NarrowBreakpoint,
		format: format,
	}
}

// ColumnsToPixels converts a terminal width in cells to logical pixels.
func ColumnsToPixels(cols int) int {
	return cols * pixelsPerColumn
}

// Narrow reports whether the selector was built for a narrow viewport.
func (s Selector) Narrow() bool {
	return s.narrow
}

// Step returns the labelling interval for a series of n points.
// It returns 1 when every point is labelled.
func Step(n int, narrow bool) int {
	if n <= maxDenseLabels {
		return 1
	}
	target := wideTargetLabels
	if narrow {
		target = narrowTargetLabels
	}
	return (n + target - 1) / target
}

// Select returns the formatted label for dates[index], or "" when the label
// should be suppressed. The last point is always labelled.
func (s Selector) Select(dates []string, index int) string {
	n := len(dates)
	if index < 0 || index >= n {
		return ""
	}
	if n <= maxDenseLabels {
		return s.format(dates[index])
	}

	step := Step(n, s.narrow)
	if index%step == 0 || index == n-1 {
		return s.format(dates[index])
	}
	return ""
}

// Labels returns the label for every point of dates in one pass.
func (s Selector) Labels(dates []string) []string {
	out := make([]string, len(dates))
	for i := range dates {
		out[i] = s.Select(dates, i)
	}
	return out
}
