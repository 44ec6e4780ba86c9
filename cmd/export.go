package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/edupulse/internal/export"
	"github.com/theirongolddev/edupulse/internal/metrics"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportDir    string
	flagExportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the metrics of a period as JSON or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&flagExportDir, "dir", "o", ".", "Directory to write the file to")
	exportCmd.Flags().BoolVar(&flagExportStdout, "stdout", false, "Write to stdout instead of a file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	f, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}
	return withService(cmd.Context(), func(svc *metrics.Service, p metrics.Period) error {
		m, err := svc.Complete(cmd.Context(), p)
		if err != nil {
			return err
		}

		if flagExportStdout {
			return export.Write(os.Stdout, m, f)
		}

		path, err := export.ToFile(flagExportDir, m, f)
		if err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Wrote %s\n", path)
		}
		return nil
	})
}
