package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/booking"
)

var (
	bookingHTML    string
	bookingCharset string
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Identify the online booking system on a saved website",
	Long: `Finds the first known booking widget embedded in the page and reports its
capability tier, the features it lacks and whether it is an upgrade target.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		html, err := readPage(cmd, bookingHTML, bookingCharset)
		if err != nil {
			return eris.Wrap(err, "booking: read html")
		}

		res := booking.New(cat).Analyze(booking.Input{WebsiteHTML: html})
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	bookingCmd.Flags().StringVar(&bookingHTML, "html", "", "saved website HTML file, - for stdin (empty = no website)")
	bookingCmd.Flags().StringVar(&bookingCharset, "charset", "", "page charset or Content-Type header (default: sniffed)")
	rootCmd.AddCommand(bookingCmd)
}
