// Package tui provides the interactive Bubble Tea dashboard for edupulse.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/debounce"
	"github.com/theirongolddev/edupulse/internal/export"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
	"github.com/theirongolddev/edupulse/internal/tui/components"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PeriodDebounce is how long the period selector must stay still before a
// fetch is issued.
const PeriodDebounce = 300 * time.Millisecond

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5

	fetchTimeout = 30 * time.Second
)

// Fetcher loads the dashboard payload for a period.
type Fetcher interface {
	Fetch(ctx context.Context, p metrics.Period) (*model.CompleteMetrics, error)
}

// Options configures a new App.
type Options struct {
	Fetcher   Fetcher
	Period    metrics.Period
	ExportDir string
	// Source names where data comes from, e.g. a server URL.
	Source string
	// Config is written back by the first-run setup form.
	Config    config.Config
	NeedSetup bool
}

// periodSettledMsg is sent once the period selector has been quiet for
// PeriodDebounce.
type periodSettledMsg struct {
	Period metrics.Period
}

// metricsLoadedMsg carries the outcome of one fetch.
type metricsLoadedMsg struct {
	Seq    uint64
	Period metrics.Period
	Data   *model.CompleteMetrics
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	fetcher   Fetcher
	exportDir string
	source    string

	// period is what the selector shows; shown is the period of data.
	period metrics.Period
	shown  metrics.Period

	// Current data slot, replaced on each successful load.
	data    *model.CompleteMetrics
	updated time.Time

	// Only the response to the latest fetch is applied.
	seq     uint64
	loading bool
	failed  bool
	notice  string

	debounce *debounce.Timer
	settled  chan metrics.Period

	width    int
	height   int
	showHelp bool
	spinner  spinner.Model

	cfg       config.Config
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	p := opts.Period
	if p == "" {
		p = metrics.DefaultPeriod
	}

	a := App{
		fetcher:   opts.Fetcher,
		exportDir: opts.ExportDir,
		source:    opts.Source,
		period:    p,
		debounce:  debounce.New(PeriodDebounce),
		settled:   make(chan metrics.Period, 1),
		spinner:   sp,
		cfg:       opts.Config,
		needSetup: opts.NeedSetup,
	}
	if a.needSetup {
		a.setupVals = setupValuesFrom(opts.Config)
		a.setupForm = newSetupForm(a.setupVals)
	} else {
		a.seq = 1
		a.loading = true
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return a.startFetch()
}

// startFetch issues the first load under the current sequence number.
func (a App) startFetch() tea.Cmd {
	return tea.Batch(
		fetchCmd(a.fetcher, a.seq, a.period),
		waitForSettled(a.settled),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.needSetup && a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.debounce.Stop()
			return a, tea.Quit
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKey(msg)

	case periodSettledMsg:
		// A value was taken off the channel, so listen for the next one.
		var cmd tea.Cmd
		a, cmd = a.reload(msg.Period)
		return a, tea.Batch(cmd, waitForSettled(a.settled))

	case metricsLoadedMsg:
		if msg.Seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.Err != nil {
			log.Printf("tui: loading %s: %v", msg.Period, msg.Err)
			a.failed = true
			return a, nil
		}
		a.failed = false
		a.data = msg.Data
		a.shown = msg.Period
		a.updated = time.Now()
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		a.debounce.Stop()
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "left", "h":
		return a.selectPeriod(components.ShiftPeriod(a.period, -1))
	case "right", "l":
		return a.selectPeriod(components.ShiftPeriod(a.period, 1))
	case "r":
		a.debounce.Cancel()
		return a.reload(a.period)
	case "e":
		return a.exportData(export.JSON), nil
	case "E":
		return a.exportData(export.CSV), nil
	}

	if p, ok := components.PeriodByKey(key); ok {
		return a.selectPeriod(p)
	}
	return a, nil
}

// selectPeriod moves the selector and (re)arms the debounce timer. The
// fetch happens once the selector settles.
func (a App) selectPeriod(p metrics.Period) (tea.Model, tea.Cmd) {
	a.period = p
	settled := a.settled
	a.debounce.Trigger(func() {
		select {
		case <-settled:
		default:
		}
		settled <- p
	})
	return a, nil
}

// reload issues a fetch of p that supersedes any fetch in flight.
func (a App) reload(p metrics.Period) (App, tea.Cmd) {
	a.seq++
	a.notice = ""
	cmds := []tea.Cmd{fetchCmd(a.fetcher, a.seq, p)}
	if !a.loading {
		cmds = append(cmds, a.spinner.Tick)
	}
	a.loading = true
	return a, tea.Batch(cmds...)
}

func (a App) exportData(f export.Format) App {
	if a.data == nil {
		a.notice = "Нет данных для экспорта"
		return a
	}
	path, err := export.ToFile(a.exportDir, a.data, f)
	if err != nil {
		log.Printf("tui: export: %v", err)
		a.notice = "Ошибка экспорта"
		return a
	}
	a.notice = "Сохранено: " + path
	return a
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.cfg = a.setupVals.apply(a.cfg)
		if err := config.Save(a.cfg); err != nil {
			log.Printf("tui: saving config: %v", err)
		}
		theme.SetActive(a.cfg.Appearance.Theme)
		a.period = metrics.ParsePeriod(a.cfg.General.DefaultPeriod)
		return a.finishSetup()
	case huh.StateAborted:
		return a.finishSetup()
	}

	return a, cmd
}

func (a App) finishSetup() (tea.Model, tea.Cmd) {
	a.needSetup = false
	a.setupForm = nil
	a.seq++
	a.loading = true
	return a, a.startFetch()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.data == nil && !a.failed {
		return a.viewLoading()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  edupulse needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ edupulse"))
	b.WriteString(subtitleStyle.Render(" · Бизнес-метрики"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Загрузка данных за " + a.period.Title() + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"1 2 3 4", "Select period"},
		{"← →", "Previous / Next period"},
		{"r", "Reload current period"},
		{"e", "Export JSON (" + export.JSONFileName + ")"},
		{"E", "Export CSV (" + export.CSVFileName + ")"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderPeriodBar(a.period, w)
	statusBar := components.RenderStatusBar(w, components.Status{
		Loading: a.loading,
		Spinner: a.spinner.View(),
		Failed:  a.failed,
		Notice:  a.notice,
		Updated: a.updated,
		Source:  a.source,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	content := a.renderDashboard(cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// fetchCmd loads p in the background, tagging the result with seq.
func fetchCmd(f Fetcher, seq uint64, p metrics.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		data, err := f.Fetch(ctx, p)
		return metricsLoadedMsg{Seq: seq, Period: p, Data: data, Err: err}
	}
}

// waitForSettled blocks until the debounce timer delivers a period.
func waitForSettled(ch <-chan metrics.Period) tea.Cmd {
	return func() tea.Msg {
		return periodSettledMsg{Period: <-ch}
	}
}

// LocalFetcher computes metrics in-process from a metrics.Service.
type LocalFetcher struct {
	Service *metrics.Service
}

// Fetch implements Fetcher.
func (l LocalFetcher) Fetch(ctx context.Context, p metrics.Period) (*model.CompleteMetrics, error) {
	return l.Service.Complete(ctx, p)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

func formatCount(n int64) string {
	return cli.FormatNumber(n)
}
