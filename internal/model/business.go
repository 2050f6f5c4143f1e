package model

import (
	"math"
	"strings"
	"time"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/booking"
	"github.com/sells-group/lead-signals/internal/callvolume"
)

// InputMode describes where a business's website markup came from.
type InputMode string

const (
	InputModeInline InputMode = "inline_html" // WebsiteHTML set on the record
	InputModeFile   InputMode = "html_file"   // HTMLPath points at a saved page
	InputModeNoSite InputMode = "no_site"     // Reviews and counts only
)

// Business is one lead as it arrives from the crawl stage.
type Business struct {
	Name              string                     `json:"name"`
	Website           string                     `json:"website,omitempty"`
	Niche             string                     `json:"niche"`
	ReviewCount       int                        `json:"review_count"`
	Rating            *float64                   `json:"rating,omitempty"`
	Reviews           []string                   `json:"reviews,omitempty"`
	WebsiteHTML       string                     `json:"website_html,omitempty"`
	HTMLPath          string                     `json:"html_path,omitempty"`
	HoursOpenPerWeek  *float64                   `json:"hours_open_per_week,omitempty"`
	AverageOrderValue *float64                   `json:"average_order_value,omitempty"`
	OpeningPeriods    []callvolume.OpeningPeriod `json:"opening_periods,omitempty"`
}

// InputMode reports which markup source the record carries.
func (b Business) InputMode() InputMode {
	switch {
	case strings.TrimSpace(b.WebsiteHTML) != "":
		return InputModeInline
	case b.HTMLPath != "":
		return InputModeFile
	default:
		return InputModeNoSite
	}
}

// HoursOpen returns the weekly open hours: the explicit value when usable, else the
// total covered by OpeningPeriods, else nil.
func (b Business) HoursOpen() *float64 {
	if h := b.HoursOpenPerWeek; h != nil && *h > 0 && !math.IsNaN(*h) && !math.IsInf(*h, 0) {
		v := *h
		return &v
	}
	if len(b.OpeningPeriods) > 0 {
		v := callvolume.HoursFromPeriods(b.OpeningPeriods)
		if v > 0 {
			return &v
		}
	}
	return nil
}

// The analyzer results are embedded so their fields flatten into the lead record.
type (
	AIDetection      = aidetect.Result
	BookingDetection = booking.Result
	CallEstimate     = callvolume.Result
)

// LeadSignals is the merged per-business output handed to the scoring stage.
//
// Provider and ProviderName exist on both AIDetection and BookingDetection, and
// Confidence on both AIDetection and CallEstimate, so they are ambiguous at the top
// level: read them through ls.AIDetection, ls.BookingDetection or ls.CallEstimate.
type LeadSignals struct {
	AnalysisID  string    `json:"analysis_id"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
	Name        string    `json:"name"`
	Website     string    `json:"website,omitempty"`
	Niche       string    `json:"niche"`
	ReviewCount int       `json:"review_count"`
	Rating      *float64  `json:"rating,omitempty"`
	InputMode   InputMode `json:"input_mode"`

	AIDetection
	BookingDetection
	CallEstimate
}
