package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/metrics"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Best-selling courses for a period",
	RunE:  runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(svc *metrics.Service, p metrics.Period) error {
		m, err := svc.Complete(cmd.Context(), p)
		if err != nil {
			return err
		}

		fmt.Println()
		if len(m.ProductPerformance) == 0 {
			fmt.Println("  Нет продуктов для отображения")
			fmt.Println()
			return nil
		}

		rows := make([][]string, 0, len(m.ProductPerformance))
		for i, pp := range m.ProductPerformance {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				pp.CourseName,
				cli.FormatNumber(pp.SalesCount),
				cli.FormatCurrency(pp.Revenue),
			})
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Top products  " + p.Title(),
			Headers: []string{"#", "Course", "Sales", "Revenue"},
			Rows:    rows,
		}))
		fmt.Println()
		return nil
	})
}
