package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/labels"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultTermWidth = 100

var audienceCmd = &cobra.Command{
	Use:   "audience",
	Short: "DAU, WAU and MAU over a period",
	RunE:  runAudience,
}

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Repeat-purchase rate and cohort retention trend",
	RunE:  runRetention,
}

func init() {
	rootCmd.AddCommand(audienceCmd)
	rootCmd.AddCommand(retentionCmd)
}

func runAudience(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(svc *metrics.Service, p metrics.Period) error {
		m, err := svc.Complete(cmd.Context(), p)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("AUDIENCE  " + p.Title()))
		fmt.Println()

		a := m.AudienceMetrics
		printSeries("DAU", a.DAU)
		printSeries("WAU", a.WAU)
		printSeries("MAU", a.MAU)
		return nil
	})
}

func runRetention(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(svc *metrics.Service, p metrics.Period) error {
		m, err := svc.Complete(cmd.Context(), p)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("RETENTION  " + p.Title()))
		fmt.Println()
		fmt.Print(cli.RenderKeyValues([][2]string{
			{"Repeat purchase rate", cli.FormatPercent(m.RetentionRate)},
			{"Level", string(metrics.Grade(m.RetentionRate/100, metrics.DefaultThresholds))},
		}))
		fmt.Println()
		printSeries("Cohort retention, %", m.RetentionTrend)
		return nil
	})
}

// printSeries draws a sparkline of s with axis labels thinned to the
// terminal width.
func printSeries(name string, s model.Series) {
	dates := s.Dates()
	fmt.Printf("  %s\n", name)
	if len(dates) == 0 {
		fmt.Println("  (no data)")
		fmt.Println()
		return
	}

	width := terminalWidth()
	format := cli.FormatDate
	if labels.ColumnsToPixels(width) < labels.NarrowBreakpoint {
		format = cli.FormatShortDate
	}
	sel := labels.New(labels.ColumnsToPixels(width), format)

	values := s.Values(dates)
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}

	fmt.Printf("  %s  max %s\n", cli.RenderSparkline(values), cli.FormatNumber(int64(peak)))
	fmt.Printf("  %s\n\n", cli.RenderAxisLabels(sel.Labels(dates)))
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}
