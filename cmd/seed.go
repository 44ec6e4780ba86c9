package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/edupulse/internal/seed"

	"github.com/spf13/cobra"
)

var (
	flagSeedUsers int
	flagSeedValue uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with a demo dataset",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVarP(&flagSeedUsers, "users", "u", seed.DefaultUsers, "Number of users to generate")
	seedCmd.Flags().Uint64Var(&flagSeedValue, "random-seed", 0, "Random seed (0 picks one from the clock)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	flagSeed = false
	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	value := flagSeedValue
	if value == 0 {
		value = uint64(time.Now().UnixNano()) //nolint:gosec // clock is positive
	}

	ds := seed.Generate(seed.Config{Users: flagSeedUsers, Seed: value})
	written, err := seed.Load(cmd.Context(), st, ds)
	if err != nil {
		return err
	}

	if flagQuiet {
		return nil
	}
	if !written {
		fmt.Printf("  %s already holds data, nothing to do.\n", dbPath(cfg))
		return nil
	}
	fmt.Printf("  Seeded %d courses, %d users, %d orders into %s\n",
		len(ds.Courses), len(ds.Users), len(ds.Orders), dbPath(cfg))
	return nil
}
