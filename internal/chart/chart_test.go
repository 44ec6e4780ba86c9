package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

func series(n int, value func(i int) float64) model.Series {
	s := model.Series{}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s[start.AddDate(0, 0, i).Format(model.DateLayout)] = value(i)
	}
	return s
}

func TestAudience_ThinsAxisLabels(t *testing.T) {
	dau := series(20, func(i int) float64 { return float64(i) })
	a := model.AudienceMetrics{DAU: dau, WAU: dau, MAU: dau}

	var buf bytes.Buffer
	if err := Audience(&buf, a, Options{Width: 1200, Height: 400}); err != nil {
		t.Fatalf("Audience: %v", err)
	}
	svg := buf.String()
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output is not SVG: %.60q", svg)
	}
	// Wide viewport, 20 points: every second date plus the last one.
	for _, want := range []string{"01.03.2026", "03.03.2026", "19.03.2026", "20.03.2026"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing axis label %s", want)
		}
	}
	if strings.Contains(svg, "02.03.2026") {
		t.Error("odd label 02.03.2026 should be suppressed")
	}
	for _, name := range []string{"DAU", "WAU", "MAU"} {
		if !strings.Contains(svg, name) {
			t.Errorf("legend missing %s", name)
		}
	}
}

func TestRetention_PercentAxis(t *testing.T) {
	trend := series(3, func(i int) float64 { return float64(i * 30) })

	var buf bytes.Buffer
	if err := Retention(&buf, trend, Options{}); err != nil {
		t.Fatalf("Retention: %v", err)
	}
	svg := buf.String()
	for _, want := range []string{"0%", "100%", "01.03.2026", "03.03.2026"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestSinglePoint(t *testing.T) {
	var buf bytes.Buffer
	trend := model.Series{"2026-03-01": 42}
	if err := Retention(&buf, trend, Options{Width: 400}); err != nil {
		t.Fatalf("single point retention: %v", err)
	}
	if !strings.Contains(buf.String(), "01.03.2026") {
		t.Fatal("single point label missing")
	}
}

func TestPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	if err := Audience(&buf, model.AudienceMetrics{}, Options{}); err != nil {
		t.Fatalf("Audience: %v", err)
	}
	if !strings.Contains(buf.String(), PlaceholderText) {
		t.Fatalf("empty audience chart lacks placeholder")
	}

	buf.Reset()
	if err := Retention(&buf, nil, Options{}); err != nil {
		t.Fatalf("Retention: %v", err)
	}
	if !strings.Contains(buf.String(), PlaceholderText) {
		t.Fatalf("empty retention chart lacks placeholder")
	}
}
