package catalog

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeNiche lower-cases a niche and joins its words with underscores.
func NormalizeNiche(niche string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(niche)), "_")
}

// Benchmark resolves a niche to its benchmark. A niche matches an entry when it
// equals the entry's niche or contains it, so "mobile_dental_clinic" resolves to
// "dental". The second return value is false when the default benchmark was used.
func (c *Catalog) Benchmark(niche string) (Benchmark, bool) {
	normalized := NormalizeNiche(niche)
	for _, b := range c.Benchmarks {
		if normalized == b.Niche || strings.Contains(normalized, b.Niche) {
			return b, true
		}
	}
	return c.DefaultBenchmark, false
}
