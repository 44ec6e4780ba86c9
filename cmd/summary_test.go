package cmd

import (
	"testing"

	"github.com/theirongolddev/edupulse/internal/metrics"
)

func TestForecastLine(t *testing.T) {
	forecast := metrics.Forecast(1000, 0.1, 2)
	got := forecastLine(1000, 0.1, forecast)
	want := "  Forecast at 10.0%/period: ₽1,210.00 after 2 periods (+₽210.00)"
	if got != want {
		t.Fatalf("forecastLine = %q, want %q", got, want)
	}

	shrink := metrics.Forecast(1000, -0.5, 1)
	if got := forecastLine(1000, -0.5, shrink); got != "  Forecast at -50.0%/period: ₽500.00 after 1 periods (-₽500.00)" {
		t.Errorf("shrinking forecast = %q", got)
	}

	if got := forecastLine(1000, 0.1, nil); got != "" {
		t.Errorf("empty forecast = %q", got)
	}
}
