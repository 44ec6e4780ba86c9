package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/theirongolddev/edupulse/internal/chart"
	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/export"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
)

const (
	minChartWidth = 200
	maxChartWidth = 4000
)

type chartKind int

const (
	chartAudience chartKind = iota
	chartRetention
)

var templateFuncs = template.FuncMap{
	"number":   cli.FormatNumber,
	"currency": cli.FormatCurrency,
	"percent":  cli.FormatPercent,
}

func (s *Server) period(r *http.Request) metrics.Period {
	if v := r.URL.Query().Get("period"); v != "" {
		return metrics.ParsePeriod(v)
	}
	return s.cfg.DefaultPeriod
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// load computes the payload, answering 500 itself on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*model.CompleteMetrics, bool) {
	m, err := s.metrics.Complete(r.Context(), s.period(r))
	if err != nil {
		s.recordError(r, err)
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return nil, false
	}
	return m, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	m, ok := s.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, m, f); err != nil {
		s.recordError(r, err)
		writeError(w, http.StatusInternalServerError, "failed to export metrics")
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) chartOptions(r *http.Request) (chart.Options, error) {
	opts := s.cfg.Chart
	if v := r.URL.Query().Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < minChartWidth || width > maxChartWidth {
			return opts, fmt.Errorf("width must be an integer between %d and %d", minChartWidth, maxChartWidth)
		}
		opts.Width = width
	}
	return opts, nil
}

func (s *Server) handleChart(kind chartKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.chartOptions(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		m, ok := s.load(w, r)
		if !ok {
			return
		}

		var buf bytes.Buffer
		switch kind {
		case chartRetention:
			err = chart.Retention(&buf, m.RetentionTrend, opts)
		default:
			err = chart.Audience(&buf, m.AudienceMetrics, opts)
		}
		if err != nil {
			s.recordError(r, err)
			writeError(w, http.StatusInternalServerError, "failed to render chart")
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(buf.Bytes())
	}
}

type periodOption struct {
	Value    string
	Title    string
	Selected bool
}

type metricCard struct {
	Label string
	Value string
	Color string
}

type dashboardPage struct {
	Period     string
	Periods    []periodOption
	Cards      []metricCard
	Products   []model.ProductPerformance
	LTVCAC     metrics.RatioStatus
	ChartWidth int
}

// dashboardTemplate is the full page; dashboardFragment is the part of it
// the page script swaps in when the period changes.
const (
	dashboardTemplate = "dashboard.html"
	dashboardFragment = "content"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, dashboardTemplate)
}

func (s *Server) handleDashboardFragment(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, dashboardFragment)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, name string) {
	p := s.period(r)
	m, ok := s.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, s.dashboardPage(p, m)); err != nil {
		s.recordError(r, err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dashboardPage(p metrics.Period, m *model.CompleteMetrics) dashboardPage {
	page := dashboardPage{
		Period:     string(p),
		Products:   m.ProductPerformance,
		LTVCAC:     metrics.AnalyzeLTVCAC(m.LTV, m.CAC),
		ChartWidth: s.cfg.Chart.Width,
	}
	for _, opt := range metrics.Periods {
		page.Periods = append(page.Periods, periodOption{
			Value:    string(opt),
			Title:    opt.Title(),
			Selected: opt == p,
		})
	}
	st := m.DashboardStats
	page.Cards = []metricCard{
		{Label: "Пользователи", Value: cli.FormatNumber(st.UserCount)},
		{Label: "Курсы", Value: cli.FormatNumber(st.CourseCount)},
		{Label: "Заказы", Value: cli.FormatNumber(st.OrderCount)},
		{Label: "Выручка", Value: cli.FormatCurrency(st.TotalRevenue)},
		{
			Label: "Retention",
			Value: cli.FormatPercent(m.RetentionRate),
			Color: metrics.Grade(m.RetentionRate/100, metrics.DefaultThresholds).Color(),
		},
		{Label: "LTV", Value: cli.FormatCurrency(m.LTV)},
		{Label: "CAC", Value: cli.FormatCurrency(m.CAC)},
		{Label: "ARPPU", Value: cli.FormatCurrency(m.ARPPU)},
	}
	return page
}
