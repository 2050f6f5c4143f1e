package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-signals/internal/export"
	"github.com/sells-group/lead-signals/internal/ingest"
	"github.com/sells-group/lead-signals/internal/metrics"
	"github.com/sells-group/lead-signals/internal/model"
	"github.com/sells-group/lead-signals/internal/signals"
)

var (
	analyzeInput       string
	analyzeConcurrency int
	analyzeLimit       int
	analyzeOutput      string
	analyzeFailed      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a lead list and write the merged signals",
	Long: `Reads a lead list (.csv, .xlsx or .json), runs AI receptionist detection,
booking system detection and call volume estimation for every business, and writes
one merged record per business.

The output format follows the --output extension: .csv, .xlsx, or JSON otherwise.
Without --output the records are printed to stdout as JSON.

Examples:
  lead-signals analyze --input leads.csv
  lead-signals analyze --input leads.xlsx --concurrency 16 --output signals.xlsx
  lead-signals analyze --input leads.json --limit 10 --output signals.csv`,
	Annotations: map[string]string{modeAnnotation: "batch"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		businesses, err := ingest.LoadBusinesses(ctx, analyzeInput)
		if err != nil {
			return eris.Wrap(err, "analyze: load input")
		}
		zap.L().Info("analyze: loaded businesses", zap.Int("count", len(businesses)))

		if analyzeLimit > 0 && analyzeLimit < len(businesses) {
			businesses = businesses[:analyzeLimit]
		}

		concurrency := analyzeConcurrency
		if concurrency <= 0 && cfg != nil {
			concurrency = cfg.Batch.MaxConcurrent
		}

		a := signals.New(cat, signals.WithMetrics(metrics.New()))
		results, stats := a.AnalyzeBatch(ctx, businesses, concurrency)

		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %q: %v\n", r.Business.Name, r.Err)
			}
		}

		if analyzeFailed != "" && stats.Failed > 0 {
			if err := writeFailed(analyzeFailed, results); err != nil {
				return eris.Wrap(err, "analyze: write failed businesses")
			}
			zap.L().Info("analyze: failed businesses written", zap.String("path", analyzeFailed), zap.Int("count", stats.Failed))
		}

		records := signals.Signals(results)
		if analyzeOutput != "" {
			if err := export.WriteFile(analyzeOutput, records); err != nil {
				return eris.Wrap(err, "analyze: write output")
			}
			zap.L().Info("analyze: results written", zap.String("path", analyzeOutput), zap.Int("records", len(records)))
		} else if err := export.WriteJSON(cmd.OutOrStdout(), records); err != nil {
			return eris.Wrap(err, "analyze: write output")
		}

		if stats.Total > 0 && stats.Succeeded == 0 {
			return eris.Errorf("analyze: all %d businesses failed", stats.Total)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "lead list: .csv, .xlsx or .json (required)")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "max businesses analyzed concurrently (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "max businesses to analyze (0 = all)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write results to file; format from extension (default: stdout JSON)")
	analyzeCmd.Flags().StringVar(&analyzeFailed, "failed", "", "write businesses that could not be analyzed to a JSON file for --input replay")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

// writeFailed saves the businesses that failed as a JSON lead list, so the same file
// can be passed back to --input once the cause is fixed.
func writeFailed(path string, results []signals.BatchResult) error {
	var failed []model.Business
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Business)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	return writeJSON(f, failed)
}
