package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/synnbad/fixbot/internal/scan"
	"github.com/synnbad/fixbot/internal/store"
	"github.com/synnbad/fixbot/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRPS     float64
	batchBurst   int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # for comments) and scans
them concurrently. Requests are rate limited per host, and each report
is written to the output directory as <scanId>.json.

Example:
  fixbot batch urls.txt
  fixbot batch urls.txt --concurrency 8 --output-dir ./reports
  fixbot batch urls.txt --rps 1 --burst 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "report output directory (defaults to the storage dir)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().Float64Var(&batchRPS, "rps", 0, "requests per second per host (overrides config)")
	batchCmd.Flags().IntVar(&batchBurst, "burst", 0, "burst size per host (overrides config)")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if batchRPS > 0 {
		cfg.Concurrency.RequestsPerSecond = batchRPS
	}
	if batchBurst > 0 {
		cfg.Concurrency.Burst = batchBurst
	}
	dir := cfg.Storage.Dir
	if outputDir != "" {
		dir = outputDir
	}

	urls, err := worker.ReadURLList(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scanning %d URLs with %d workers (output: %s)\n\n", len(urls), cfg.Concurrency.Workers, dir)

	reports, err := store.New(dir)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}

	limiter := worker.NewHostLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	batch := worker.NewBatch(scan.NewScanner(cfg), cfg.Concurrency.Workers, limiter)

	outcomes := batch.Run(ctx, urls)

	succeeded := 0
	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", out.URL, out.Err)
			continue
		}
		if err := reports.Save(out.Report); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: save report: %v\n", out.URL, err)
			continue
		}
		succeeded++
		fmt.Fprintf(os.Stderr, "✓ %s (score: %.0f/100, issues: %d)\n", out.URL, out.Report.Scores.Overall, len(out.Report.Issues))
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed, reports in %s\n", succeeded, failed, dir)

	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("all %d scans failed", failed)
	}
	return nil
}
