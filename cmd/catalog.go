package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/catalog"
)

var catalogKind string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active provider catalog",
	Long: `Lists the AI vendors, booking systems or niche benchmarks the analyzers use.
The built-in catalog is replaced by catalog.path in config.yaml when set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := cat
		if c == nil {
			c = catalog.Default()
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		switch catalogKind {
		case "ai":
			printAIProviders(tw, c)
		case "booking":
			printBookingProviders(tw, c)
		case "benchmarks":
			printBenchmarks(tw, c)
		default:
			return eris.Errorf("catalog: unknown kind %q (want ai, booking or benchmarks)", catalogKind)
		}
		return tw.Flush()
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogKind, "kind", "ai", "what to list: ai, booking or benchmarks")
	rootCmd.AddCommand(catalogCmd)
}

func ruleCounts(p *catalog.Provider) string {
	return fmt.Sprintf("%d\t%d\t%d\t%d",
		len(p.Patterns.ScriptSrc),
		len(p.Patterns.IframeSrc),
		len(p.Patterns.DataAttributes),
		len(p.Patterns.ClassNames),
	)
}

func printAIProviders(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintln(w, "PROVIDER\tSCRIPTS\tIFRAMES\tDATA ATTRS\tCLASSES")
	for _, p := range c.AIProviders {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, ruleCounts(p))
	}
	fmt.Fprintf(w, "\nkeywords: %d\treview phrases: %d\n", c.Keywords().Len(), c.ReviewPhrases().Len())
}

func printBookingProviders(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintln(w, "PROVIDER\tTIER\tUPGRADE\tGAPS")
	for _, p := range c.BookingProviders {
		gaps := strings.Join(p.Gaps, "; ")
		if gaps == "" {
			gaps = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", p.Name, p.Tier, p.Tier.Upgradable(), gaps)
	}
}

func printBenchmarks(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintln(w, "NICHE\tCALLS/CUSTOMER/YEAR\tAVG ORDER VALUE")
	for _, b := range append(append([]catalog.Benchmark(nil), c.Benchmarks...), c.DefaultBenchmark) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Niche,
			strconv.FormatFloat(b.CallsPerCustomerPerYear, 'f', -1, 64),
			strconv.FormatFloat(b.AverageOrderValue, 'f', -1, 64),
		)
	}
}
