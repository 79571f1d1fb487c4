package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/synnbad/fixbot/internal/scan"
	"github.com/synnbad/fixbot/internal/store"
)

var (
	outJSON     string
	scanTimeout time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noRobots    bool
	saveReport  bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a single URL and print the accessibility report",
	Long: `Scan fetches one page and reports:
- Images with missing or generic alt text
- Broken heading structure (multiple H1s, skipped levels, empty headings)
- An overall score with per-category breakdown
- The CMS behind the page, when detectable

Example:
  fixbot scan https://example.com
  fixbot scan https://example.com --json report.json
  fixbot scan https://example.com --save`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&outJSON, "json", "", "write the report to this path instead of stdout")
	scanCmd.Flags().BoolVar(&saveReport, "save", false, "persist the report to the storage directory")

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Second, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (overrides config)")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read (overrides config)")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetch)")
	scanCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.HTTP.Timeout = scanTimeout
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", scanTimeout)
	}

	scanner := scan.NewScanner(cfg)
	report, err := scanner.Scan(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Found %d issues\n", len(report.Issues))
		fmt.Fprintf(os.Stderr, "✓ Overall score: %.0f/100\n", report.Scores.Overall)
		fmt.Fprintf(os.Stderr, "✓ CMS: %s (%s confidence)\n\n", report.CMS.Platform, report.CMS.Confidence)
	}

	if saveReport {
		reports, err := store.New(cfg.Storage.Dir)
		if err != nil {
			return fmt.Errorf("open report store: %w", err)
		}
		if err := reports.Save(report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Saved report %s to %s\n", report.ScanID, cfg.Storage.Dir)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if outJSON != "" {
		if err := os.WriteFile(outJSON, append(payload, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		return nil
	}

	fmt.Println(string(payload))
	return nil
}
