package catalog

import (
	"regexp"
	"strings"
)

// Match records which provider rule fired.
type Match struct {
	Provider *Provider
	Category Category
	Rule     string
}

// Match tests the provider's rule groups against doc in order: script src,
// iframe src, data attribute, class name. The first hit wins.
func (p *Provider) Match(doc *Document) (Match, bool) {
	if doc == nil {
		return Match{}, false
	}
	if i, ok := firstRegexp(p.scriptSrc, doc.scriptSrcs); ok {
		return Match{Provider: p, Category: CategoryScriptSrc, Rule: p.Patterns.ScriptSrc[i]}, true
	}
	if i, ok := firstRegexp(p.iframeSrc, doc.iframeSrcs); ok {
		return Match{Provider: p, Category: CategoryIframeSrc, Rule: p.Patterns.IframeSrc[i]}, true
	}
	for _, prefix := range p.dataAttrs {
		for _, name := range doc.dataAttrs {
			if strings.HasPrefix(name, prefix) {
				return Match{Provider: p, Category: CategoryDataAttribute, Rule: prefix}, true
			}
		}
	}
	for _, cls := range p.classNames {
		for _, value := range doc.classes {
			if strings.Contains(value, cls) {
				return Match{Provider: p, Category: CategoryClassName, Rule: cls}, true
			}
		}
	}
	return Match{}, false
}

// FirstMatch returns the first provider, in list order, with any matching rule.
func FirstMatch(providers []*Provider, doc *Document) (Match, bool) {
	for _, p := range providers {
		if m, ok := p.Match(doc); ok {
			return m, true
		}
	}
	return Match{}, false
}

func firstRegexp(res []*regexp.Regexp, values []string) (int, bool) {
	for i, re := range res {
		for _, v := range values {
			if re.MatchString(v) {
				return i, true
			}
		}
	}
	return 0, false
}
