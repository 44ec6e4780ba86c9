// Package cmd implements the edupulse CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/metrics"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default period: %s\n", metrics.ParsePeriod(cfg.General.DefaultPeriod))
	fmt.Printf("    Database:       %s\n", dbPath(cfg))
	if env := os.Getenv(config.EnvDBPath); env != "" {
		fmt.Printf("                    (from $%s)\n", config.EnvDBPath)
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Client]")
	if cfg.Client.ServerURL != "" {
		fmt.Printf("    Server URL: %s\n", cfg.Client.ServerURL)
	} else {
		fmt.Println("    Server URL: not set (local database)")
	}
	fmt.Println()

	fmt.Println("  [Finance]")
	fmt.Printf("    Monthly marketing costs: %s\n", cli.FormatCurrency(cfg.Finance.MonthlyMarketingCosts))
	fmt.Println()

	fmt.Println("  [Charts]")
	fmt.Printf("    Size: %dx%d px\n", cfg.Charts.Width, cfg.Charts.Height)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `edupulse setup` to reconfigure.")
	return nil
}
