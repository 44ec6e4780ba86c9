package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/edupulse/internal/chart"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
)

type fakeMetrics struct {
	m       *model.CompleteMetrics
	err     error
	periods []metrics.Period
}

func (f *fakeMetrics) Complete(_ context.Context, p metrics.Period) (*model.CompleteMetrics, error) {
	f.periods = append(f.periods, p)
	return f.m, f.err
}

func samplePayload() *model.CompleteMetrics {
	series := model.Series{"2026-03-02": 4, "2026-03-09": 6}
	return &model.CompleteMetrics{
		DashboardStats: model.DashboardStats{UserCount: 1234, CourseCount: 16, OrderCount: 42, TotalRevenue: 98765.4},
		AudienceMetrics: model.AudienceMetrics{
			DAU: series, WAU: series, MAU: series,
		},
		RetentionRate: 37.5,
		LTV:           1500,
		CAC:           400,
		ARPPU:         2100.75,
		ProductPerformance: []model.ProductPerformance{
			{CourseID: 3, CourseName: `Курс "Go"`, SalesCount: 9, Revenue: 27000},
		},
		RetentionTrend: model.Series{"2026-03-02": 50},
	}
}

func newTestServer(t *testing.T, fm *fakeMetrics) *Server {
	t.Helper()
	s, err := New(Config{DefaultPeriod: metrics.Last30Days, Chart: chart.Options{Width: 1200}}, fm)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, &fakeMetrics{}), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	fm := &fakeMetrics{m: samplePayload()}
	rec := get(t, newTestServer(t, fm), "/api/metrics?period=LAST7DAYS")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, []metrics.Period{metrics.Last7Days}, fm.periods)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	stats := body["dashboardStats"].(map[string]any)
	require.EqualValues(t, 1234, stats["userCount"])
	require.Contains(t, body["audienceMetrics"], "DAU")
	require.EqualValues(t, 37.5, body["retentionRate"])
}

func TestMetrics_DefaultPeriod(t *testing.T) {
	fm := &fakeMetrics{m: samplePayload()}
	s := newTestServer(t, fm)

	get(t, s, "/api/metrics")
	get(t, s, "/api/metrics?period=bogus")
	require.Equal(t, []metrics.Period{metrics.Last30Days, metrics.Last30Days}, fm.periods)
}

func TestMetrics_ErrorIsJSON(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{err: errors.New("db locked")})
	rec := get(t, s, "/api/metrics")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
	require.NotContains(t, body["error"], "db locked")

	st := s.snapshotStatus()
	require.EqualValues(t, 1, st.ErrorCount)
	require.Equal(t, "db locked", st.LastError)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: samplePayload()})

	rec := get(t, s, "/api/export?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard-products.csv")
	require.Equal(t, "courseId,courseName,salesCount,revenue\n3,\"Курс \"\"Go\"\"\",9,27000.00\n", rec.Body.String())

	rec = get(t, s, "/api/export")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard-data.json")
	require.True(t, strings.HasPrefix(rec.Body.String(), "{\n  \"dashboardStats\""))

	rec = get(t, s, "/api/export?format=xml")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCharts(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: samplePayload()})

	for _, path := range []string{"/charts/audience.svg", "/charts/retention.svg?width=600"} {
		rec := get(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		require.True(t, strings.HasPrefix(rec.Body.String(), "<svg"), path)
		require.Contains(t, rec.Body.String(), "02.03.2026")
	}

	rec := get(t, s, "/charts/audience.svg?width=abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = get(t, s, "/charts/audience.svg?width=10")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCharts_EmptyDataPlaceholder(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: &model.CompleteMetrics{}})
	rec := get(t, s, "/charts/retention.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), chart.PlaceholderText)
}

func TestDashboardPage(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: samplePayload()})
	rec := get(t, s, "/?period=last90days")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `<option value="last90days" selected>`)
	require.Contains(t, body, "1 234")
	require.Contains(t, body, "₽98,765.40")
	require.Contains(t, body, "37.5%")
	require.Contains(t, body, "/charts/audience.svg?period=last90days&amp;width=1200")
	require.Contains(t, body, "Курс &#34;Go&#34;")
	require.Contains(t, body, "ratio-excellent")
}

func TestDashboardPage_NoProducts(t *testing.T) {
	m := samplePayload()
	m.ProductPerformance = []model.ProductPerformance{}
	s := newTestServer(t, &fakeMetrics{m: m})

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Нет продуктов для отображения")
}

func TestDashboardPage_SwapsPeriodInPlace(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: samplePayload()})
	body := get(t, s, "/").Body.String()

	require.NotContains(t, body, "this.form.submit()")
	require.Contains(t, body, `<main id="content">`)
	require.Contains(t, body, "/fragments/dashboard?period=")
	require.Contains(t, body, "setTimeout(function () { load(select.value); }, 300)")
	require.Contains(t, body, "Ошибка при загрузке данных")
}

func TestDashboardFragment(t *testing.T) {
	fm := &fakeMetrics{m: samplePayload()}
	s := newTestServer(t, fm)

	rec := get(t, s, "/fragments/dashboard?period=last7days")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.NotContains(t, body, "<html")
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "₽98,765.40")
	require.Contains(t, body, "/charts/retention.svg?period=last7days&amp;width=1200")
	require.Contains(t, body, "/api/export?format=csv&amp;period=last7days")
	require.Equal(t, []metrics.Period{metrics.Last7Days}, fm.periods)
}

func TestDashboardFragment_ErrorIsJSON(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{err: errors.New("db down")})

	rec := get(t, s, "/fragments/dashboard")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"error"`)
	require.NotContains(t, rec.Body.String(), "db down")
}

func TestStatusCountsRequests(t *testing.T) {
	s := newTestServer(t, &fakeMetrics{m: samplePayload()})
	get(t, s, "/healthz")
	get(t, s, "/healthz")

	rec := get(t, s, "/v1/status")
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.EqualValues(t, 3, st.RequestCount)
	require.Equal(t, "last30days", st.DefaultPeriod)
}
