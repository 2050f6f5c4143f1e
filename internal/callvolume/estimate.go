// Package callvolume turns a business's review count into an estimate of weekly call
// volume, after-hours missed calls and the revenue those missed calls cost per month.
//
// The pipeline assumes one review per hundred annual customers, converts customers to
// calls with a per-niche benchmark, treats the closed share of the week (capped at
// 35%) as after-hours traffic, and assumes 80% of it goes unanswered and half of the
// unanswered callers would have bought.
package callvolume

import (
	"math"

	"github.com/sells-group/lead-signals/internal/catalog"
)

const (
	ReviewRate     = 0.01
	MissedCallRate = 0.80
	WeeksPerMonth  = 4
	ConversionRate = 0.50

	MinReviewCount        = 5
	MaxWeeklyCalls        = 10000
	MaxMonthlyRevenueLoss = 50000

	DefaultHoursOpen  = 60.0
	HoursPerWeek      = 168.0
	MaxAfterHoursRate = 0.35
)

// Confidence grades an estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Accuracy returns the error band quoted for a confidence level.
func (c Confidence) Accuracy() string {
	switch c {
	case ConfidenceHigh:
		return "±20%"
	case ConfidenceMedium:
		return "±40%"
	default:
		return "±60%"
	}
}

// Input describes the business being estimated. Hours and order value are optional;
// nil, non-positive and non-finite values fall back to defaults.
type Input struct {
	ReviewCount       int      `json:"review_count"`
	Niche             string   `json:"niche"`
	HoursOpenPerWeek  *float64 `json:"hours_open_per_week,omitempty"`
	AverageOrderValue *float64 `json:"average_order_value,omitempty"`
}

// Result is the rounded estimate plus a prose explanation of how it was reached.
type Result struct {
	WeeklyCalls        int        `json:"weekly_call_volume_estimate"`
	AfterHoursCalls    int        `json:"after_hours_calls_per_week"`
	MissedCalls        int        `json:"missed_calls_per_week"`
	MonthlyRevenueLoss int        `json:"estimated_monthly_revenue_loss"`
	Confidence         Confidence `json:"call_estimate_confidence"`
	Methodology        string     `json:"call_estimate_methodology"`
}

// Estimator resolves niches against a catalog's benchmarks.
type Estimator struct {
	catalog *catalog.Catalog
}

// New creates an Estimator. A nil catalog means catalog.Default().
func New(c *catalog.Catalog) *Estimator {
	if c == nil {
		c = catalog.Default()
	}
	return &Estimator{catalog: c}
}

var std = New(nil)

// Estimate runs the default estimator.
func Estimate(in Input) Result {
	return std.Estimate(in)
}

// breakdown holds the unrounded intermediate values of one estimate.
type breakdown struct {
	reviewCount     int
	niche           string
	unknownNiche    bool
	annualCustomers float64
	weeklyCalls     float64
	afterHoursRate  float64
	afterHoursCalls float64
	missedCalls     float64
	orderValue      float64
	revenueLoss     float64
	capped          bool
	confidence      Confidence
}

// Estimate computes the call-volume estimate for one business. Review counts below
// MinReviewCount, negative ones included, short-circuit to an all-zero low-confidence
// result before any benchmark lookup.
func (e *Estimator) Estimate(in Input) Result {
	if in.ReviewCount < MinReviewCount {
		return Result{
			Confidence:  ConfidenceLow,
			Methodology: insufficientData(in.ReviewCount),
		}
	}

	bench, found := e.catalog.Benchmark(in.Niche)
	b := breakdown{
		reviewCount:  in.ReviewCount,
		niche:        in.Niche,
		unknownNiche: !found && !isDefaultNiche(in.Niche),
		orderValue:   orValue(in.AverageOrderValue, bench.AverageOrderValue),
	}
	if !b.unknownNiche {
		b.niche = bench.Niche
	}

	b.annualCustomers = float64(in.ReviewCount) / ReviewRate
	annualCalls := b.annualCustomers * bench.CallsPerCustomerPerYear
	b.weeklyCalls = math.Min(annualCalls/52, MaxWeeklyCalls)

	b.afterHoursRate = AfterHoursRate(orValue(in.HoursOpenPerWeek, DefaultHoursOpen))
	b.afterHoursCalls = b.weeklyCalls * b.afterHoursRate
	b.missedCalls = b.afterHoursCalls * MissedCallRate

	b.revenueLoss = math.Min(b.missedCalls*WeeksPerMonth*b.orderValue*ConversionRate, MaxMonthlyRevenueLoss)
	b.capped = b.weeklyCalls >= MaxWeeklyCalls || b.revenueLoss >= MaxMonthlyRevenueLoss
	b.confidence = confidenceFor(in.ReviewCount, b.unknownNiche)

	return Result{
		WeeklyCalls:        round(b.weeklyCalls),
		AfterHoursCalls:    round(b.afterHoursCalls),
		MissedCalls:        round(b.missedCalls),
		MonthlyRevenueLoss: round(b.revenueLoss),
		Confidence:         b.confidence,
		Methodology:        methodology(b),
	}
}

// AfterHoursRate is the closed share of the week, floored at 0 and capped at
// MaxAfterHoursRate.
func AfterHoursRate(hoursOpen float64) float64 {
	rate := (HoursPerWeek - hoursOpen) / HoursPerWeek
	return math.Max(0, math.Min(MaxAfterHoursRate, rate))
}

func confidenceFor(reviews int, unknownNiche bool) Confidence {
	c := ConfidenceLow
	switch {
	case reviews >= 100:
		c = ConfidenceHigh
	case reviews >= 20:
		c = ConfidenceMedium
	}
	if !unknownNiche {
		return c
	}
	if c == ConfidenceHigh {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

func isDefaultNiche(niche string) bool {
	return catalog.NormalizeNiche(niche) == "default"
}

// orValue returns *v when it is a usable positive number, else fallback.
func orValue(v *float64, fallback float64) float64 {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fallback
	}
	return *v
}

func round(v float64) int {
	return int(math.Round(v))
}
