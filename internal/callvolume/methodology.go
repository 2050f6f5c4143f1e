package callvolume

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func insufficientData(reviews int) string {
	return fmt.Sprintf("Insufficient review data (%d reviews). Minimum %d reviews required for reliable estimates.",
		reviews, MinReviewCount)
}

func methodology(b breakdown) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Based on %d reviews (assuming 1%% review rate = %d annual customers)",
		b.reviewCount, round(b.annualCustomers))
	if b.unknownNiche {
		fmt.Fprintf(&sb, " and default industry benchmarks (niche %q not in benchmark table)", b.niche)
	} else {
		fmt.Fprintf(&sb, " and %s industry benchmarks", b.niche)
	}

	fmt.Fprintf(&sb, ", we estimate %d calls/week.", round(b.weeklyCalls))
	fmt.Fprintf(&sb, " With %d%% after-hours (%d calls/week), approximately %d calls/week go unanswered (%d%% missed rate).",
		round(b.afterHoursRate*100), round(b.afterHoursCalls), round(b.missedCalls), round(MissedCallRate*100))
	fmt.Fprintf(&sb, " At $%s avg order value with %d%% conversion, this represents ~$%d/month in missed revenue.",
		formatAmount(b.orderValue), round(ConversionRate*100), round(b.revenueLoss))

	if b.capped {
		sb.WriteString(" Note: Estimate capped at maximum realistic values.")
	}
	fmt.Fprintf(&sb, " Estimated accuracy: %s.", b.confidence.Accuracy())
	if b.confidence == ConfidenceLow {
		sb.WriteString(" Low confidence - use as directional estimate only.")
	}

	return sb.String()
}

// formatAmount prints whole amounts without decimals and others with up to two.
func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
