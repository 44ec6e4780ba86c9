package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds what the first-run form edits.
type setupValues struct {
	Period    string
	ServerURL string
	Theme     string
}

func setupValuesFrom(cfg config.Config) *setupValues {
	return &setupValues{
		Period:    string(metrics.ParsePeriod(cfg.General.DefaultPeriod)),
		ServerURL: cfg.Client.ServerURL,
		Theme:     theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// apply copies the form values into cfg.
func (v *setupValues) apply(cfg config.Config) config.Config {
	cfg.General.DefaultPeriod = v.Period
	cfg.Client.ServerURL = strings.TrimSpace(v.ServerURL)
	cfg.Appearance.Theme = v.Theme
	return cfg
}

// NewSetupForm builds the setup wizard seeded from cfg. Once the form has
// completed, the returned func yields cfg with the answers applied.
func NewSetupForm(cfg config.Config) (*huh.Form, func() config.Config) {
	vals := setupValuesFrom(cfg)
	return newSetupForm(vals), func() config.Config { return vals.apply(cfg) }
}

func newSetupForm(vals *setupValues) *huh.Form {
	periodOpts := make([]huh.Option[string], 0, len(metrics.Periods))
	for _, p := range metrics.Periods {
		periodOpts = append(periodOpts, huh.NewOption(p.Title(), string(p)))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Title, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("edupulse").
				Description("Бизнес-метрики онлайн-школы.\nНесколько вопросов перед началом работы."),
			huh.NewSelect[string]().
				Title("Период по умолчанию").
				Options(periodOpts...).
				Value(&vals.Period),
			huh.NewInput().
				Title("Адрес сервера").
				Description("Оставьте пустым, чтобы считать метрики из локальной базы.").
				Placeholder("http://127.0.0.1:8080").
				Value(&vals.ServerURL).
				Validate(validateServerURL),
			huh.NewSelect[string]().
				Title("Цветовая тема").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

func validateServerURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ожидается http(s)://host[:port]")
	}
	return nil
}
