// Package booking detects which scheduling vendor a business embeds on its site and
// whether that vendor's capability tier leaves room for an upsell.
package booking

import (
	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/sanitize"
)

// Input is the page to analyze.
type Input struct {
	WebsiteHTML string `json:"website_html"`
}

// Result describes the detected booking system. A page without any known booking
// embed reports TierNone; interpreting that as a sales signal is up to the scorer.
type Result struct {
	Provider           *string          `json:"booking_provider"`
	Tier               catalog.Tier     `json:"booking_system_tier"`
	Gaps               []string         `json:"booking_system_gaps"`
	UpgradeOpportunity bool             `json:"booking_upgrade_opportunity"`
	MatchedBy          catalog.Category `json:"booking_match_category,omitempty"`
}

// ProviderName returns the detected provider or "".
func (r Result) ProviderName() string {
	if r.Provider == nil {
		return ""
	}
	return *r.Provider
}

// Analyzer matches pages against a catalog's booking providers.
type Analyzer struct {
	catalog *catalog.Catalog
}

// New creates an Analyzer. A nil catalog means catalog.Default().
func New(c *catalog.Catalog) *Analyzer {
	if c == nil {
		c = catalog.Default()
	}
	return &Analyzer{catalog: c}
}

var std = New(nil)

// Analyze runs the default analyzer.
func Analyze(in Input) Result {
	return std.Analyze(in)
}

// Analyze returns the first booking provider, in catalog order, embedded in the page.
func (a *Analyzer) Analyze(in Input) Result {
	doc := catalog.ParseDocument(sanitize.HTML(in.WebsiteHTML))

	m, ok := catalog.FirstMatch(a.catalog.BookingProviders, doc)
	if !ok {
		return Result{
			Tier: catalog.TierNone,
			Gaps: []string{},
		}
	}

	name := m.Provider.Name
	return Result{
		Provider:           &name,
		Tier:               m.Provider.Tier,
		Gaps:               append([]string{}, m.Provider.Gaps...),
		UpgradeOpportunity: m.Provider.Tier.Upgradable(),
		MatchedBy:          m.Category,
	}
}
