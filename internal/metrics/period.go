// Package metrics computes the dashboard metrics for a reporting period.
package metrics

import (
	"strings"
	"time"
)

// Period names a reporting window ending today.
type Period string

// Supported periods.
const (
	Last7Days   Period = "last7days"
	Last30Days  Period = "last30days"
	Last90Days  Period = "last90days"
	Last365Days Period = "last365days"

	DefaultPeriod = Last30Days
)

// Periods lists the supported periods, shortest first.
var Periods = []Period{Last7Days, Last30Days, Last90Days, Last365Days}

var periodDays = map[Period]int{
	Last7Days:   7,
	Last30Days:  30,
	Last90Days:  90,
	Last365Days: 365,
}

var periodTitles = map[Period]string{
	Last7Days:   "7 дней",
	Last30Days:  "30 дней",
	Last90Days:  "90 дней",
	Last365Days: "365 дней",
}

// ParsePeriod resolves a period name case-insensitively.
// Unknown or empty names fall back to DefaultPeriod.
func ParsePeriod(name string) Period {
	p := Period(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := periodDays[p]; ok {
		return p
	}
	return DefaultPeriod
}

// Days is the number of days the period looks back.
func (p Period) Days() int {
	if d, ok := periodDays[p]; ok {
		return d
	}
	return periodDays[DefaultPeriod]
}

// Title is the short human-readable label.
func (p Period) Title() string {
	if t, ok := periodTitles[p]; ok {
		return t
	}
	return periodTitles[DefaultPeriod]
}

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Range returns [today - N days 00:00, tomorrow 00:00) in now's location.
func (p Period) Range(now time.Time) Range {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Range{
		Start: today.AddDate(0, 0, -p.Days()),
		End:   today.AddDate(0, 0, 1),
	}
}

// Days counts the calendar days between the start and end dates.
func (r Range) Days() int {
	loc := r.Start.Location()
	s := r.Start.In(loc)
	e := r.End.In(loc)
	sd := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(ed.Sub(sd).Hours() / 24)
}

// Aggregation is the bucket size of the time series.
type Aggregation string

// Aggregation levels.
const (
	ByDay   Aggregation = "day"
	ByWeek  Aggregation = "week"
	ByMonth Aggregation = "month"
)

// AggregationFor picks month for ranges over 180 days, week from 30 days,
// and day otherwise.
func AggregationFor(r Range) Aggregation {
	days := r.Days()
	switch {
	case days > 180:
		return ByMonth
	case days >= 30:
		return ByWeek
	default:
		return ByDay
	}
}

// Bucket truncates t (in loc) to the start of its day, Monday-based week or month.
func (a Aggregation) Bucket(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	switch a {
	case ByWeek:
		offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
		return d.AddDate(0, 0, -offset)
	case ByMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return d
	}
}
