package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
	"github.com/theirongolddev/edupulse/internal/tui/components"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// EmptyProductsText is shown when no course sold in the period.
const EmptyProductsText = "Нет продуктов для отображения"

const (
	// sideBySideWidth is the content width from which the two charts share a row.
	sideBySideWidth = 140
	chartHeight     = 12
	productBarWidth = 20
)

func (a App) renderDashboard(cw int) string {
	if a.data == nil {
		t := theme.Active
		msg := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Render(components.LoadErrorText)
		return components.ContentCard("Нет данных", msg, cw)
	}

	m := a.data
	var b strings.Builder

	b.WriteString(components.MetricCardRow(headlineCards(m, a.shown), cw))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow(financeCards(m), cw))
	b.WriteString("\n")
	b.WriteString(renderCharts(m, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Топ продуктов", renderProducts(m.ProductPerformance, components.CardInnerWidth(cw)), cw))

	return b.String()
}

func headlineCards(m *model.CompleteMetrics, p metrics.Period) []components.Metric {
	st := m.DashboardStats
	hint := ""
	if p != "" {
		hint = "за " + p.Title()
	}
	return []components.Metric{
		{Label: "Активные пользователи", Value: formatCount(st.UserCount), Hint: hint},
		{Label: "Курсы", Value: formatCount(st.CourseCount), Hint: "в каталоге"},
		{Label: "Заказы", Value: formatCount(st.OrderCount), Hint: hint},
		{Label: "Выручка", Value: cli.FormatCurrency(st.TotalRevenue), Hint: hint},
	}
}

func financeCards(m *model.CompleteMetrics) []components.Metric {
	ratio := metrics.AnalyzeLTVCAC(m.LTV, m.CAC)
	ratioLevel := metrics.LevelBad
	switch ratio.Status {
	case "excellent":
		ratioLevel = metrics.LevelGood
	case "good":
		ratioLevel = metrics.LevelMedium
	}

	return []components.Metric{
		{
			Label: "Удержание",
			Value: cli.FormatPercent(m.RetentionRate),
			Hint:  "повторные покупки",
			Level: metrics.Grade(m.RetentionRate/100, metrics.DefaultThresholds),
		},
		{
			Label: "LTV",
			Value: cli.FormatCurrency(m.LTV),
			Hint:  fmt.Sprintf("LTV/CAC %.1f · %s", ratio.Ratio, ratio.Message),
			Level: ratioLevel,
		},
		{Label: "CAC", Value: cli.FormatCurrency(m.CAC), Hint: "стоимость привлечения"},
		{Label: "ARPPU", Value: cli.FormatCurrency(m.ARPPU), Hint: "на платящего"},
	}
}

func renderCharts(m *model.CompleteMetrics, cw int) string {
	t := theme.Active

	audience := []components.Line{
		{Name: "DAU", Series: m.AudienceMetrics.DAU, Color: t.DAU},
		{Name: "WAU", Series: m.AudienceMetrics.WAU, Color: t.WAU},
		{Name: "MAU", Series: m.AudienceMetrics.MAU, Color: t.MAU},
	}
	retention := []components.Line{
		{Name: "Удержание", Series: m.RetentionTrend, Color: t.Retention},
	}

	if cw < sideBySideWidth {
		inner := components.CardInnerWidth(cw)
		return components.ContentCard("Аудитория", components.LineChart(audience, components.ChartOptions{Width: inner, Height: chartHeight}), cw) +
			"\n" +
			components.ContentCard("Тренд удержания", components.LineChart(retention, components.ChartOptions{Width: inner, Height: chartHeight, YMax: 100, YSuffix: "%"}), cw)
	}

	widths := components.LayoutRow(cw, 2)
	left := components.ContentCard("Аудитория",
		components.LineChart(audience, components.ChartOptions{Width: components.CardInnerWidth(widths[0]), Height: chartHeight}), widths[0])
	right := components.ContentCard("Тренд удержания",
		components.LineChart(retention, components.ChartOptions{Width: components.CardInnerWidth(widths[1]), Height: chartHeight, YMax: 100, YSuffix: "%"}), widths[1])
	return components.CardRow([]string{left, right})
}

func renderProducts(products []model.ProductPerformance, width int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(products) == 0 {
		return dim.Render(EmptyProductsText)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	peak := 0.0
	for _, p := range products {
		peak = max(peak, float64(p.SalesCount))
	}

	nameW := max(width-productBarWidth-30, 12)
	lines := make([]string, 0, len(products))
	for i, p := range products {
		name := fmt.Sprintf("%d. %s", i+1, truncStr(p.CourseName, nameW-3))
		lines = append(lines, nameStyle.Render(fmt.Sprintf("%-*s", nameW, name))+" "+
			components.Bar(float64(p.SalesCount), peak, productBarWidth, t.Accent)+" "+
			numStyle.Render(fmt.Sprintf("%6s продаж  %14s", formatCount(p.SalesCount), cli.FormatCurrency(p.Revenue))))
	}
	return strings.Join(lines, "\n")
}
