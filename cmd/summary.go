package cmd

import (
	"fmt"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/metrics"

	"github.com/spf13/cobra"
)

var flagGrowth float64

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline and financial metrics for a period",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().Float64Var(&flagGrowth, "growth", 0, "Monthly growth rate for a revenue forecast, e.g. 0.05")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(svc *metrics.Service, p metrics.Period) error {
		m, err := svc.Complete(cmd.Context(), p)
		if err != nil {
			return err
		}

		st := m.DashboardStats
		if st.UserCount == 0 && st.OrderCount == 0 && st.CourseCount == 0 {
			fmt.Println("\n  No data in the database.")
			fmt.Println("  Run `edupulse seed` to generate a demo dataset.")
			return nil
		}

		ratio := metrics.AnalyzeLTVCAC(m.LTV, m.CAC)

		fmt.Println()
		fmt.Println(cli.RenderTitle("EDUPULSE  " + p.Title()))
		fmt.Println()

		rows := [][]string{
			{"Active users", cli.FormatNumber(st.UserCount)},
			{"Courses", cli.FormatNumber(st.CourseCount)},
			{"Orders", cli.FormatNumber(st.OrderCount)},
			{"Revenue", cli.FormatCurrency(st.TotalRevenue)},
			{"---"},
			{"Retention", cli.FormatPercent(m.RetentionRate)},
			{"LTV", cli.FormatCurrency(m.LTV)},
			{"CAC", cli.FormatCurrency(m.CAC)},
			{"ARPPU", cli.FormatCurrency(m.ARPPU)},
			{"LTV/CAC", fmt.Sprintf("%.2f  %s", ratio.Ratio, ratio.Message)},
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		if flagGrowth != 0 {
			forecast := metrics.Forecast(st.TotalRevenue, flagGrowth, metrics.DefaultForecastPeriods)
			fmt.Println()
			fmt.Println(forecastLine(st.TotalRevenue, flagGrowth, forecast))
			fmt.Printf("  %s\n", cli.RenderSparkline(forecast))
		}
		fmt.Println()
		return nil
	})
}

// forecastLine summarises where revenue ends up after the forecast horizon
// and how far that is from today.
func forecastLine(revenue, growth float64, forecast []float64) string {
	if len(forecast) == 0 {
		return ""
	}
	last := forecast[len(forecast)-1]
	return fmt.Sprintf("  Forecast at %s/period: %s after %d periods (%s)",
		cli.FormatPercent(growth*100),
		cli.FormatCurrency(last),
		len(forecast),
		cli.FormatDelta(last, revenue))
}
