package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is the set of embed-relevant attribute values pulled out of an HTML page.
// Only element attributes are collected; text nodes (prose, escaped code samples,
// script bodies) never reach the matchers.
type Document struct {
	scriptSrcs []string
	iframeSrcs []string
	dataAttrs  []string
	classes    []string
}

// ParseDocument parses HTML leniently. Malformed markup yields whatever elements the
// parser could recover. Scripting is disabled while parsing so embeds wrapped in
// <noscript> are parsed as elements rather than raw text.
func ParseDocument(markup string) *Document {
	d := &Document{}
	if strings.TrimSpace(markup) == "" {
		return d
	}

	root, err := html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
	if err != nil {
		return d
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			d.scriptSrcs = append(d.scriptSrcs, src)
		}
	})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			d.iframeSrcs = append(d.iframeSrcs, src)
		}
	})
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			key := strings.ToLower(attr.Key)
			switch {
			case strings.HasPrefix(key, "data-"):
				d.dataAttrs = append(d.dataAttrs, key)
			case key == "class":
				d.classes = append(d.classes, strings.ToLower(attr.Val))
			}
		}
	})

	return d
}

// ScriptSrcs returns the src values of external scripts in document order.
func (d *Document) ScriptSrcs() []string {
	return d.scriptSrcs
}

// Empty reports whether the document carries no embed-relevant attributes.
func (d *Document) Empty() bool {
	return len(d.scriptSrcs) == 0 && len(d.iframeSrcs) == 0 && len(d.dataAttrs) == 0 && len(d.classes) == 0
}
