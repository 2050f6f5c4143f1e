package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-signals/internal/catalog"
)

func TestAnalyze_Providers(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		provider string
		tier     catalog.Tier
		upgrade  bool
		matched  catalog.Category
	}{
		{
			name: "calendly script",
			html: `<html><head><script src="https://assets.calendly.com/assets/embed/embed.js"></script></head>
				<body><div class="calendly-inline-widget" data-calendly-url="https://calendly.com/john"></div></body></html>`,
			provider: "Calendly", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryScriptSrc,
		},
		{
			name:     "mindbody iframe",
			html:     `<iframe src="https://mindbodyonline.com/widget/book?business=123"></iframe>`,
			provider: "Mindbody", tier: catalog.TierAdvanced, upgrade: false, matched: catalog.CategoryIframeSrc,
		},
		{
			name:     "square data attribute",
			html:     `<div data-square-appointments="true"></div>`,
			provider: "Square Appointments", tier: catalog.TierIntermediate, upgrade: true, matched: catalog.CategoryDataAttribute,
		},
		{
			name:     "setmore class",
			html:     `<div class="setmore-widget"></div>`,
			provider: "Setmore", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryClassName,
		},
		{
			name:     "mindbody class",
			html:     `<div class="mindbody-widget"></div>`,
			provider: "Mindbody", tier: catalog.TierAdvanced, upgrade: false, matched: catalog.CategoryClassName,
		},
		{
			name: "embed beside inline script",
			html: `<script>// Some analytics code</script>
				<div class="calendly-inline-widget" data-calendly-url="https://calendly.com/john"></div>`,
			provider: "Calendly", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryDataAttribute,
		},
		{
			name: "script embed beside inline literal",
			html: `<script>const example = '<div class="calendly-widget"></div>';</script>
				<script src="https://assets.calendly.com/assets/embed/embed.js"></script>`,
			provider: "Calendly", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryScriptSrc,
		},
		{
			name:     "noscript iframe",
			html:     `<noscript><iframe src="https://calendly.com/acme/30min"></iframe></noscript>`,
			provider: "Calendly", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryIframeSrc,
		},
		{
			name:     "noscript class",
			html:     `<body><noscript><div class="setmore-widget"></div></noscript></body>`,
			provider: "Setmore", tier: catalog.TierBasic, upgrade: true, matched: catalog.CategoryClassName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(Input{WebsiteHTML: tt.html})
			require.NotNil(t, res.Provider)
			assert.Equal(t, tt.provider, *res.Provider)
			assert.Equal(t, tt.tier, res.Tier)
			assert.Equal(t, tt.upgrade, res.UpgradeOpportunity)
			assert.Equal(t, tt.matched, res.MatchedBy)
		})
	}
}

func TestAnalyze_FalsePositives(t *testing.T) {
	pages := map[string]string{
		"link text": `<p>Check out <a href="https://example.com">Calendly</a> for scheduling.</p>
			<p>We recommend using calendly.com for appointments.</p>`,
		"blog post": `<article><h1>Best Scheduling Tools</h1>
			<p>Calendly is a popular choice for small businesses.</p>
			<p>Acuity Scheduling offers more features.</p></article>`,
		"code sample": `<article><h1>How to Embed Calendly</h1>
			<pre><code>&lt;div class="calendly-inline-widget"&gt;&lt;/div&gt;</code></pre></article>`,
		"string literal": `<script>
			const markup = '<div class="calendly-inline-widget"></div>';
			const example = '<div data-calendly-url="https://calendly.com/john"></div>';
		</script>`,
		"json-ld": `<script type="application/ld+json">
			{ "description": "Example with calendly-inline-widget class" }
		</script>`,
		"footer link": `<footer><p>Powered by <a href="https://setmore.com">Setmore</a></p></footer>`,
	}
	for name, html := range pages {
		t.Run(name, func(t *testing.T) {
			res := Analyze(Input{WebsiteHTML: html})
			assert.Nil(t, res.Provider)
			assert.Equal(t, catalog.TierNone, res.Tier)
			assert.False(t, res.UpgradeOpportunity)
			assert.Empty(t, res.Gaps)
		})
	}
}

func TestAnalyze_Gaps(t *testing.T) {
	res := Analyze(Input{WebsiteHTML: `<script src="https://calendly.com/widget.js"></script>`})
	assert.Equal(t, "Calendly", res.ProviderName())
	assert.Contains(t, res.Gaps, "No SMS reminders")
	assert.Len(t, res.Gaps, 4)

	res = Analyze(Input{WebsiteHTML: `<div class="mindbody-booking"></div>`})
	assert.Equal(t, "Mindbody", res.ProviderName())
	assert.NotNil(t, res.Gaps)
	assert.Empty(t, res.Gaps)
}

func TestAnalyze_GapsAreCopies(t *testing.T) {
	res := Analyze(Input{WebsiteHTML: `<div class="calendly-popup"></div>`})
	require.NotEmpty(t, res.Gaps)
	res.Gaps[0] = "mutated"

	again := Analyze(Input{WebsiteHTML: `<div class="calendly-popup"></div>`})
	assert.Equal(t, "No SMS reminders", again.Gaps[0])
}

func TestAnalyze_TierGapCoupling(t *testing.T) {
	for _, p := range catalog.Default().BookingProviders {
		t.Run(p.Name, func(t *testing.T) {
			html := `<div class="` + p.Patterns.ClassNames[0] + `"></div>`
			res := Analyze(Input{WebsiteHTML: html})
			require.Equal(t, p.Name, res.ProviderName())
			switch p.Tier {
			case catalog.TierAdvanced:
				assert.Empty(t, res.Gaps)
				assert.False(t, res.UpgradeOpportunity)
			default:
				assert.True(t, res.UpgradeOpportunity)
			}
		})
	}
}

func TestAnalyze_NoBookingSystem(t *testing.T) {
	res := Analyze(Input{WebsiteHTML: `<h1>Local Business</h1><p>Call us at 555-1234 to book</p>`})
	assert.Nil(t, res.Provider)
	assert.Equal(t, catalog.TierNone, res.Tier)
	assert.False(t, res.UpgradeOpportunity)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"booking_provider":null,"booking_system_tier":"none","booking_system_gaps":[],"booking_upgrade_opportunity":false}`, string(data))
}

func TestAnalyze_CustomCatalog(t *testing.T) {
	c, err := catalog.Parse([]byte(`
booking_providers:
  - name: LocalBook
    tier: advanced
    patterns: {iframe_src: ['localbook\.test/embed']}
default_benchmark: {niche: default, calls_per_customer_per_year: 8, average_order_value: 100}
`))
	require.NoError(t, err)

	res := New(c).Analyze(Input{WebsiteHTML: `<iframe src="https://localbook.test/embed/1"></iframe>`})
	assert.Equal(t, "LocalBook", res.ProviderName())
	assert.False(t, res.UpgradeOpportunity)

	res = New(c).Analyze(Input{WebsiteHTML: `<div class="calendly-popup"></div>`})
	assert.Nil(t, res.Provider)
}

func TestAnalyze_Idempotent(t *testing.T) {
	in := Input{WebsiteHTML: `<div data-vagaro="1"></div>`}
	assert.Equal(t, Analyze(in), Analyze(in))
}
