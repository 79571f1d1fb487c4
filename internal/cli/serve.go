package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synnbad/fixbot/internal/chat"
	"github.com/synnbad/fixbot/internal/httpapi"
	"github.com/synnbad/fixbot/internal/llm"
	"github.com/synnbad/fixbot/internal/scan"
	"github.com/synnbad/fixbot/internal/store"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FixBot HTTP API",
	Long: `Serve starts the JSON API:

  POST /api/scan           - scan a URL and persist the report
  GET  /api/scans          - list scan summaries
  GET  /api/scans/{scanId} - fetch a full report
  POST /api/chat           - ask FixBot about a scan

Example:
  fixbot serve
  fixbot serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reports, err := store.New(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}
	var assistant *llm.Assistant
	if provider != nil {
		assistant = llm.NewAssistant(provider)
		logger.Info("chat assistant enabled", "provider", provider.Name())
	} else {
		logger.Info("chat assistant disabled, using rule engine")
	}

	server := httpapi.NewServer(scan.NewScanner(cfg), reports, chat.NewEngine(), assistant, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx, addr)
}
