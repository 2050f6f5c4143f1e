// Package sanitize strips the parts of an HTML document that produce false-positive
// embed matches: inline scripts, JSON-LD blocks and stylesheets.
package sanitize

import (
	"regexp"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b([^>]*)>.*?</script\s*>`)
	styleBlock  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)

	srcAttr = regexp.MustCompile(`(?i)\ssrc\s*=`)
	jsonLD  = regexp.MustCompile(`(?i)\stype\s*=\s*["']?application/ld\+json`)
)

// HTML removes every <script> element without a src attribute, every JSON-LD
// <script> element, and every <style> element, each together with its content.
// Scripts that load an external src are kept verbatim. Elements missing their
// closing tag are left in place.
func HTML(html string) string {
	cleaned := scriptBlock.ReplaceAllStringFunc(html, func(block string) string {
		open := scriptBlock.FindStringSubmatch(block)[1]
		if jsonLD.MatchString(open) || !srcAttr.MatchString(open) {
			return ""
		}
		return block
	})
	return styleBlock.ReplaceAllString(cleaned, "")
}
