package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/callvolume"
)

var (
	estimateReviews int
	estimateNiche   string
	estimateHours   float64
	estimateAOV     float64
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate weekly call volume and missed-call revenue loss",
	Long: `Estimates inbound call volume from a business's review count and niche
benchmark, then the after-hours and missed calls and the monthly revenue they cost.

Examples:
  lead-signals estimate --reviews 100 --niche gym
  lead-signals estimate --reviews 40 --niche dental --hours 45 --aov 250`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := callvolume.Input{
			ReviewCount: estimateReviews,
			Niche:       estimateNiche,
		}
		if cmd.Flags().Changed("hours") {
			in.HoursOpenPerWeek = &estimateHours
		}
		if cmd.Flags().Changed("aov") {
			in.AverageOrderValue = &estimateAOV
		}

		res := callvolume.New(cat).Estimate(in)
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	estimateCmd.Flags().IntVar(&estimateReviews, "reviews", 0, "number of public reviews (required)")
	estimateCmd.Flags().StringVar(&estimateNiche, "niche", "", "business niche, e.g. gym, dental, hvac (required)")
	estimateCmd.Flags().Float64Var(&estimateHours, "hours", callvolume.DefaultHoursOpen, "hours open per week")
	estimateCmd.Flags().Float64Var(&estimateAOV, "aov", 0, "average order value override (default from niche benchmark)")
	_ = estimateCmd.MarkFlagRequired("reviews")
	_ = estimateCmd.MarkFlagRequired("niche")
	rootCmd.AddCommand(estimateCmd)
}
