// Package sanitize strips demo-store boilerplate from product descriptions.
package sanitize

import (
	"regexp"
	"strings"
)

// disclaimerPatterns match the markup the demo storefront injects into
// every product body. They are applied in order, case-insensitively, with
// "." matching newlines.
var disclaimerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<em>\s*This is a demonstration store\. You can purchase products like this from\s*<a[^>]*href="https?://www\.purefixcycles\.com"[^>]*target="_blank">Pure Fix Cycles</a>\s*</em>`),
	regexp.MustCompile(`(?is)<!--\s*DEMO_STORE_DISCLAIMER\s*-->`),
	regexp.MustCompile(`(?is)<div\s+class=['"]demo-store-disclaimer['"][^>]*>.*?</div>`),
}

var emptyParagraph = regexp.MustCompile(`<p>\s*</p>`)

// CleanDescription removes the demo-store disclaimers from html, drops the
// paragraphs left empty and trims the result. Empty input gives "".
func CleanDescription(html string) string {
	if html == "" {
		return ""
	}

	// Removing one form can expose another, e.g. a comment inside the <em>
	// block, or <p><p></p></p>. Repeat until nothing matches.
	for {
		cleaned := stripOnce(html)
		if cleaned == html {
			break
		}
		html = cleaned
	}

	return strings.TrimSpace(html)
}

func stripOnce(html string) string {
	for _, re := range disclaimerPatterns {
		html = re.ReplaceAllLiteralString(html, "")
	}
	return emptyParagraph.ReplaceAllLiteralString(html, "")
}

// CleanDescriptionPtr is CleanDescription for a possibly-null body.
func CleanDescriptionPtr(html *string) string {
	if html == nil {
		return ""
	}
	return CleanDescription(*html)
}
