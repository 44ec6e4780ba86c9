package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/theirongolddev/edupulse/internal/client"
	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/tui"
	"github.com/theirongolddev/edupulse/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagServerURL string
	flagExportTo  string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagServerURL, "server", "", "Read metrics from an edupulse server instead of the local database")
	tuiCmd.Flags().StringVar(&flagExportTo, "export-dir", ".", "Directory for e/E exports")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The alt screen owns stderr; send log output to a file instead.
	if err := os.MkdirAll(config.DataDir(), 0o750); err == nil {
		if logf, err := tea.LogToFile(filepath.Join(config.DataDir(), "tui.log"), ""); err == nil {
			defer func() { _ = logf.Close() }()
		}
	}

	opts := tui.Options{
		Period:    selectedPeriod(cfg),
		ExportDir: flagExportTo,
		Config:    cfg,
		NeedSetup: !config.Exists(),
	}

	serverURL := flagServerURL
	if serverURL == "" {
		serverURL = cfg.Client.ServerURL
	}
	if serverURL != "" {
		opts.Fetcher = client.New(serverURL, nil)
		opts.Source = serverURL
	} else {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts.Fetcher = tui.LocalFetcher{Service: newService(st, cfg)}
		opts.Source = filepath.Base(dbPath(cfg))
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("tui: %v", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
