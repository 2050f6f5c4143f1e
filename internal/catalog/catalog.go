// Package catalog holds the provider signatures, phrase lists and niche benchmarks
// the lead-signal analyzers match against. A catalog is parsed and compiled once and
// is read-only afterwards, so it is safe to share between goroutines.
package catalog

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Category identifies which kind of embed signature matched.
type Category string

// Rule groups, in evaluation order.
const (
	CategoryScriptSrc     Category = "script_src"
	CategoryIframeSrc     Category = "iframe_src"
	CategoryDataAttribute Category = "data_attribute"
	CategoryClassName     Category = "class_name"
)

// Tier is the capability classification of a booking provider.
type Tier string

const (
	TierNone         Tier = "none"
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierUnknown      Tier = "unknown"
)

// Upgradable reports whether a provider on this tier is an upsell target.
func (t Tier) Upgradable() bool {
	return t == TierBasic || t == TierIntermediate
}

// Patterns groups the match rules of a provider signature.
type Patterns struct {
	ScriptSrc      []string `yaml:"script_src"`
	IframeSrc      []string `yaml:"iframe_src"`
	DataAttributes []string `yaml:"data_attributes"`
	ClassNames     []string `yaml:"class_names"`
}

func (p Patterns) size() int {
	return len(p.ScriptSrc) + len(p.IframeSrc) + len(p.DataAttributes) + len(p.ClassNames)
}

// Provider is one known third-party integration (AI voice vendor or booking vendor).
type Provider struct {
	Name     string   `yaml:"name"`
	Tier     Tier     `yaml:"tier,omitempty"`
	Gaps     []string `yaml:"gaps,omitempty"`
	Patterns Patterns `yaml:"patterns"`

	scriptSrc  []*regexp.Regexp
	iframeSrc  []*regexp.Regexp
	dataAttrs  []string
	classNames []string
}

// Benchmark holds the per-niche assumptions used by the call estimator.
type Benchmark struct {
	Niche                   string  `yaml:"niche" json:"niche"`
	CallsPerCustomerPerYear float64 `yaml:"calls_per_customer_per_year" json:"calls_per_customer_per_year"`
	AverageOrderValue       float64 `yaml:"average_order_value" json:"average_order_value"`
}

// Catalog is the full set of static data consumed by the analyzers.
type Catalog struct {
	Version          int         `yaml:"version"`
	AIProviders      []*Provider `yaml:"ai_providers"`
	AIKeywords       []string    `yaml:"ai_keywords"`
	AIReviewPhrases  []string    `yaml:"ai_review_phrases"`
	BookingProviders []*Provider `yaml:"booking_providers"`
	Benchmarks       []Benchmark `yaml:"benchmarks"`
	DefaultBenchmark Benchmark   `yaml:"default_benchmark"`

	keywords      *PhraseSet
	reviewPhrases *PhraseSet
}

var defaultCatalog = mustParse(embeddedCatalog)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(eris.ToString(err, false))
	}
	return c
}

// LoadFile reads, validates and compiles a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: load %s", path)
	}
	return c, nil
}

// Parse decodes a YAML catalog and compiles its matchers.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Keywords returns the matcher for AI marketing phrases.
func (c *Catalog) Keywords() *PhraseSet {
	return c.keywords
}

// ReviewPhrases returns the matcher for review phrases implying automated call handling.
func (c *Catalog) ReviewPhrases() *PhraseSet {
	return c.reviewPhrases
}

// Provider returns the named provider from either list.
func (c *Catalog) Provider(name string) (*Provider, bool) {
	for _, list := range [][]*Provider{c.AIProviders, c.BookingProviders} {
		for _, p := range list {
			if strings.EqualFold(p.Name, name) {
				return p, true
			}
		}
	}
	return nil, false
}

func (c *Catalog) compile() error {
	if err := compileProviders("ai", c.AIProviders, false); err != nil {
		return err
	}
	if err := compileProviders("booking", c.BookingProviders, true); err != nil {
		return err
	}

	var err error
	if c.keywords, err = NewPhraseSet(c.AIKeywords); err != nil {
		return eris.Wrap(err, "catalog: ai keywords")
	}
	if c.reviewPhrases, err = NewPhraseSet(c.AIReviewPhrases); err != nil {
		return eris.Wrap(err, "catalog: review phrases")
	}

	if err := validateBenchmark(c.DefaultBenchmark); err != nil {
		return eris.Wrap(err, "catalog: default benchmark")
	}
	seen := make(map[string]bool, len(c.Benchmarks))
	for i := range c.Benchmarks {
		b := &c.Benchmarks[i]
		b.Niche = NormalizeNiche(b.Niche)
		if err := validateBenchmark(*b); err != nil {
			return eris.Wrapf(err, "catalog: benchmark %d", i)
		}
		if seen[b.Niche] {
			return eris.Errorf("catalog: duplicate benchmark niche %q", b.Niche)
		}
		seen[b.Niche] = true
	}
	return nil
}

func compileProviders(kind string, providers []*Provider, tiered bool) error {
	seen := make(map[string]bool, len(providers))
	for i, p := range providers {
		if p == nil || strings.TrimSpace(p.Name) == "" {
			return eris.Errorf("catalog: %s provider %d has no name", kind, i)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return eris.Errorf("catalog: duplicate %s provider %q", kind, p.Name)
		}
		seen[key] = true

		if tiered {
			switch p.Tier {
			case TierBasic, TierIntermediate, TierAdvanced:
			default:
				return eris.Errorf("catalog: booking provider %q has invalid tier %q", p.Name, p.Tier)
			}
		}
		if p.Patterns.size() == 0 {
			return eris.Errorf("catalog: %s provider %q has no match rules", kind, p.Name)
		}
		if err := p.compile(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) compile() error {
	var err error
	if p.scriptSrc, err = compileAll(p.Name, p.Patterns.ScriptSrc); err != nil {
		return err
	}
	if p.iframeSrc, err = compileAll(p.Name, p.Patterns.IframeSrc); err != nil {
		return err
	}
	p.dataAttrs = lowerAll(p.Patterns.DataAttributes)
	for _, a := range p.dataAttrs {
		if !strings.HasPrefix(a, "data-") {
			return eris.Errorf("catalog: provider %q data attribute %q must start with data-", p.Name, a)
		}
	}
	p.classNames = lowerAll(p.Patterns.ClassNames)
	return nil
}

func compileAll(provider string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: provider %q pattern %q", provider, expr)
		}
		out = append(out, re)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validateBenchmark(b Benchmark) error {
	if b.Niche == "" {
		return eris.New("niche is required")
	}
	if b.CallsPerCustomerPerYear <= 0 || b.AverageOrderValue <= 0 {
		return eris.Errorf("niche %q: calls per customer and average order value must be positive", b.Niche)
	}
	return nil
}
