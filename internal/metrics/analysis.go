package metrics

// Level grades a normalised metric value.
type Level string

// Metric levels and their dashboard colours.
const (
	LevelGood   Level = "good"
	LevelMedium Level = "medium"
	LevelBad    Level = "bad"
)

// Thresholds are the lower bounds of the good and medium levels.
type Thresholds struct {
	Good   float64
	Medium float64
}

// DefaultThresholds grades values in [0, 1].
var DefaultThresholds = Thresholds{Good: 0.7, Medium: 0.3}

var levelColors = map[Level]string{
	LevelGood:   "#28a745",
	LevelMedium: "#ffc107",
	LevelBad:    "#dc3545",
}

// Grade returns the level of value under th.
func Grade(value float64, th Thresholds) Level {
	switch {
	case value >= th.Good:
		return LevelGood
	case value >= th.Medium:
		return LevelMedium
	default:
		return LevelBad
	}
}

// Color returns the hex colour of a level.
func (l Level) Color() string { return levelColors[l] }

// RatioStatus classifies the LTV/CAC ratio.
type RatioStatus struct {
	Ratio   float64
	Status  string
	Message string
}

// AnalyzeLTVCAC grades the LTV/CAC ratio: 3 or more is excellent, 1.5 or
// more is good. A zero CAC has no meaningful ratio and is reported as poor.
func AnalyzeLTVCAC(ltv, cac float64) RatioStatus {
	if cac <= 0 {
		return RatioStatus{Status: "poor", Message: "Низкое соотношение"}
	}
	r := ltv / cac
	switch {
	case r >= 3:
		return RatioStatus{Ratio: r, Status: "excellent", Message: "Отличное соотношение"}
	case r >= 1.5:
		return RatioStatus{Ratio: r, Status: "good", Message: "Хорошее соотношение"}
	default:
		return RatioStatus{Ratio: r, Status: "poor", Message: "Низкое соотношение"}
	}
}

// DefaultForecastPeriods is the forecast horizon when none is given.
const DefaultForecastPeriods = 12

// Forecast compounds growth on current for the given number of periods.
// Element i is the revenue at the end of period i+1.
func Forecast(current, growth float64, periods int) []float64 {
	if periods <= 0 {
		periods = DefaultForecastPeriods
	}
	out := make([]float64, periods)
	revenue := current
	for i := range out {
		revenue *= 1 + growth
		out[i] = revenue
	}
	return out
}
