package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/edupulse/internal/chart"
	"github.com/theirongolddev/edupulse/internal/cli"
	"github.com/theirongolddev/edupulse/internal/client"
	"github.com/theirongolddev/edupulse/internal/config"
	"github.com/theirongolddev/edupulse/internal/web"

	"github.com/spf13/cobra"
)

const statusTimeout = 2 * time.Second

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard page, metrics API and charts over HTTP",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running server",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr(cfg config.Config) string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	if cfg.Server.Addr != "" {
		return cfg.Server.Addr
	}
	return web.DefaultAddr
}

// serverURL is the URL a local client uses to reach a server listening on
// addr. Wildcard and empty hosts are reached over loopback.
func serverURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// fetchServerStatus asks the server at addr for its status.
func fetchServerStatus(ctx context.Context, addr string) (web.Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	return client.New(serverURL(addr), nil).Status(ctx)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	addr := serveAddr(cfg)

	if st, err := fetchServerStatus(ctx, addr); err == nil {
		return fmt.Errorf("edupulse is already serving %s (database %s)", addr, st.DBPath)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	srv, err := web.New(web.Config{
		Addr:          addr,
		DBPath:        dbPath(cfg),
		DefaultPeriod: selectedPeriod(cfg),
		Chart:         chart.Options{Width: cfg.Charts.Width, Height: cfg.Charts.Height},
	}, newService(st, cfg))
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  edupulse listening on %s\n", serverURL(addr))
		fmt.Printf("  Database: %s\n", dbPath(cfg))
		fmt.Println("  Stop with Ctrl+C")
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(cmd *cobra.Command, _ []string) error {
	addr := serveAddr(loadConfig())
	url := serverURL(addr)

	st, err := fetchServerStatus(cmd.Context(), addr)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			fmt.Printf("  %s answered HTTP %d\n", url, se.Code)
			return nil
		}
		fmt.Printf("  No server at %s\n", url)
		return nil
	}

	fmt.Print(cli.RenderKeyValues(statusRows(url, st)))
	return nil
}

func statusRows(url string, st web.Status) [][2]string {
	rows := [][2]string{
		{"Address", url},
		{"Started", st.StartedAt.Local().Format(time.RFC3339)},
		{"Uptime", time.Since(st.StartedAt).Round(time.Second).String()},
		{"Database", st.DBPath},
		{"Default period", st.DefaultPeriod},
		{"Requests", cli.FormatNumber(st.RequestCount)},
		{"Errors", cli.FormatNumber(st.ErrorCount)},
	}
	if st.LastError != "" {
		rows = append(rows, [2]string{"Last error", st.LastError + " (" + st.LastErrorAt.Local().Format(time.RFC3339) + ")"})
	}
	return rows
}
