package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderPeriodBar renders the period selector with the active period
// highlighted and each period's shortcut key.
func RenderPeriodBar(active metrics.Period, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	brandStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	parts := []string{brandStyle.Render(" ◈ edupulse ")}
	for i, p := range metrics.Periods {
		key := keyStyle.Render(fmt.Sprintf("%d", i+1))
		if p == active {
			parts = append(parts, key+activeStyle.Render(p.Title()))
		} else {
			parts = append(parts, key+inactiveStyle.Render(p.Title()))
		}
	}

	row := strings.Join(parts, sepStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// PeriodByKey maps the shortcut keys 1-4 to a period.
func PeriodByKey(key string) (metrics.Period, bool) {
	if len(key) != 1 || key[0] < '1' {
		return "", false
	}
	idx := int(key[0] - '1')
	if idx >= len(metrics.Periods) {
		return "", false
	}
	return metrics.Periods[idx], true
}

// ShiftPeriod moves delta steps through the period list, wrapping around.
func ShiftPeriod(p metrics.Period, delta int) metrics.Period {
	n := len(metrics.Periods)
	idx := 0
	for i, q := range metrics.Periods {
		if q == p {
			idx = i
			break
		}
	}
	return metrics.Periods[((idx+delta)%n+n)%n]
}
