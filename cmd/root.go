package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/seed"
	"github.com/theirongolddev/edupulse/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDBPath string
	flagPeriod string
	flagQuiet  bool
	flagSeed   bool
)

var rootCmd = &cobra.Command{
	Use:   "edupulse",
	Short: "Business metrics for an online school",
	Long:  "Compute, serve and explore audience, retention and financial metrics of an online course catalog.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default from config or $"+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Reporting period: last7days, last30days, last90days, last365days")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagSeed, "seed", false, "Fill an empty database with demo data first")
}

// loadConfig loads config, falling back to defaults when the file is broken.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func dbPath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return config.DBPath(cfg)
}

// selectedPeriod resolves --period, then the configured default.
func selectedPeriod(cfg config.Config) metrics.Period {
	if flagPeriod != "" {
		return metrics.ParsePeriod(flagPeriod)
	}
	return metrics.ParsePeriod(cfg.General.DefaultPeriod)
}

// openStore opens the database and, with --seed, fills it with demo data
// when it is empty.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	path := dbPath(cfg)
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if flagSeed {
		if _, err := seed.Load(ctx, st, seed.Generate(seed.Config{Users: seed.DefaultUsers, Seed: uint64(time.Now().UnixNano())})); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	return st, nil
}

func newService(st *store.Store, cfg config.Config) *metrics.Service {
	return metrics.NewService(st, metrics.Options{
		MonthlyMarketingCosts: cfg.Finance.MonthlyMarketingCosts,
	})
}

// withService opens the store, builds the metrics service and runs fn with
// the selected period.
func withService(ctx context.Context, fn func(svc *metrics.Service, p metrics.Period) error) error {
	cfg := loadConfig()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(newService(st, cfg), selectedPeriod(cfg))
}
