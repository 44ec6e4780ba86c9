package metrics

import (
	"testing"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

func TestRetentionTrend_WeeklyCohorts(t *testing.T) {
	members := []model.CohortMember{
		{RegisteredAt: at(3, 10, 9), LastActivityAt: at(3, 16, 0)},  // exactly cohort + 7 days
		{RegisteredAt: at(3, 11, 9), LastActivityAt: at(3, 15, 23)}, // one hour short
		{RegisteredAt: at(3, 12, 9)},                                // never active
		{RegisteredAt: at(3, 17, 9), LastActivityAt: at(3, 30, 9)},
	}

	got := RetentionTrend(members, ByDay, time.UTC)

	assertSeries(t, "trend", got, map[string]float64{
		"2026-03-09": 33.33,
		"2026-03-16": 100,
	})
}

func TestRetentionTrend_MonthlyCohorts(t *testing.T) {
	members := []model.CohortMember{
		{RegisteredAt: at(2, 3, 9), LastActivityAt: at(2, 5, 9)},
		{RegisteredAt: at(2, 20, 9), LastActivityAt: at(2, 20, 10)},
	}

	got := RetentionTrend(members, ByMonth, time.UTC)

	assertSeries(t, "trend", got, map[string]float64{"2026-02-01": 50})
}

func TestRetentionTrend_CalendarWeekAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	// Clocks go forward on 2026-03-29, so the week after the Monday 2026-03-23
	// cohort is only 167 hours long.
	members := []model.CohortMember{
		{
			RegisteredAt:   time.Date(2026, 3, 23, 10, 0, 0, 0, berlin),
			LastActivityAt: time.Date(2026, 3, 30, 0, 30, 0, 0, berlin),
		},
		{
			RegisteredAt:   time.Date(2026, 3, 24, 10, 0, 0, 0, berlin),
			LastActivityAt: time.Date(2026, 3, 29, 23, 30, 0, 0, berlin),
		},
	}

	got := RetentionTrend(members, ByWeek, berlin)

	assertSeries(t, "trend", got, map[string]float64{"2026-03-23": 50})
}

func TestRetentionTrend_Empty(t *testing.T) {
	got := RetentionTrend(nil, ByWeek, time.UTC)
	if got == nil || len(got) != 0 {
		t.Fatalf("trend = %#v, want empty non-nil series", got)
	}
}

func TestRepeatPurchaseRate(t *testing.T) {
	if got := RepeatPurchaseRate(0, 0); got != 0 {
		t.Fatalf("rate with no buyers = %v, want 0", got)
	}
	if got := RepeatPurchaseRate(4, 1); got != 25 {
		t.Fatalf("rate = %v, want 25", got)
	}
}

func TestFinancials(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"LTV", LTV(10000, 3), 3333.33},
		{"LTV no users", LTV(100, 0), 0},
		{"PeriodCosts", PeriodCosts(50000, 31), 51666.67},
		{"CAC", CAC(51666.67, 3), 17222.22},
		{"CAC no users", CAC(51666.67, 0), 0},
		{"ARPPU", ARPPU(3500.5, 2), 1750.25},
		{"ARPPU no payers", ARPPU(3500.5, 0), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
