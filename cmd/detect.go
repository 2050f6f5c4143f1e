package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/aidetect"
)

var (
	detectHTML    string
	detectReviews string
	detectName    string
	detectCharset string
)

var detectCmd = &cobra.Command{
	Use:   "detect-ai",
	Short: "Detect an AI receptionist on a saved website",
	Long: `Checks a saved website for AI voice or receptionist vendors.

Detection runs in order and stops at the first hit:
  1. a known vendor script embedded in the page   (high confidence)
  2. two or more AI phrases in the page markup     (medium confidence)
  3. a customer review describing a robot answerer (low confidence)

Examples:
  lead-signals detect-ai --html site.html
  lead-signals detect-ai --html site.html --reviews reviews.txt --name "Iron Temple Gym"
  curl -s https://example.com | lead-signals detect-ai --html - --charset windows-1252`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		html, err := readPage(cmd, detectHTML, detectCharset)
		if err != nil {
			return eris.Wrap(err, "detect-ai: read html")
		}
		reviews, err := readReviews(detectReviews)
		if err != nil {
			return eris.Wrap(err, "detect-ai: read reviews")
		}

		res := aidetect.New(cat).Detect(aidetect.Input{
			WebsiteHTML:  html,
			Reviews:      reviews,
			BusinessName: detectName,
		})
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectHTML, "html", "", "saved website HTML file, - for stdin (empty = no website)")
	detectCmd.Flags().StringVar(&detectReviews, "reviews", "", "file with one customer review per line")
	detectCmd.Flags().StringVar(&detectName, "name", "", "business name")
	detectCmd.Flags().StringVar(&detectCharset, "charset", "", "page charset or Content-Type header (default: sniffed)")
	rootCmd.AddCommand(detectCmd)
}
