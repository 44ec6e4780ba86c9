package metrics

import (
	"math"
	"testing"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		v    float64
		want Level
	}{
		{0.9, LevelGood},
		{0.7, LevelGood},
		{0.5, LevelMedium},
		{0.3, LevelMedium},
		{0.1, LevelBad},
	}
	for _, tt := range tests {
		if got := Grade(tt.v, DefaultThresholds); got != tt.want {
			t.Errorf("Grade(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
	if LevelGood.Color() != "#28a745" || LevelBad.Color() != "#dc3545" {
		t.Fatal("unexpected level colours")
	}
}

func TestAnalyzeLTVCAC(t *testing.T) {
	tests := []struct {
		ltv, cac float64
		want     string
	}{
		{300, 100, "excellent"},
		{150, 100, "good"},
		{149, 100, "poor"},
		{100, 0, "poor"},
	}
	for _, tt := range tests {
		if got := AnalyzeLTVCAC(tt.ltv, tt.cac); got.Status != tt.want {
			t.Errorf("AnalyzeLTVCAC(%v, %v) = %s, want %s", tt.ltv, tt.cac, got.Status, tt.want)
		}
	}
	if r := AnalyzeLTVCAC(100, 0).Ratio; r != 0 {
		t.Fatalf("ratio with zero CAC = %v, want 0", r)
	}
}

func TestForecast(t *testing.T) {
	got := Forecast(1000, 0.1, 3)
	want := []float64{1100, 1210, 1331}
	if len(got) != len(want) {
		t.Fatalf("Forecast len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Forecast[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if n := len(Forecast(1000, 0.1, 0)); n != DefaultForecastPeriods {
		t.Fatalf("default horizon = %d, want %d", n, DefaultForecastPeriods)
	}
}
