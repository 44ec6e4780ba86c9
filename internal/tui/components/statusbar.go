package components

import (
	"strings"
	"time"

	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LoadErrorText is the one alert shown for any failed metrics load.
const LoadErrorText = "Ошибка при загрузке данных"

// Status is what the bottom bar reports.
type Status struct {
	Loading bool
	Spinner string // current spinner frame
	Failed  bool
	Notice  string
	Updated time.Time
	Source  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Bold(true)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := base.Render(" [1-4]period  [e/E]export  [r]eload  [?]help  [q]uit")

	var right string
	switch {
	case s.Loading:
		right = accent.Render(s.Spinner) + base.Render(" Загрузка... ")
	case s.Failed:
		right = errStyle.Render(LoadErrorText + " ")
	case s.Notice != "":
		right = accent.Render(s.Notice + " ")
	case !s.Updated.IsZero():
		right = base.Render("Обновлено " + s.Updated.Format("15:04:05") + " ")
	}
	if s.Source != "" {
		right = base.Render(s.Source+" │ ") + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
