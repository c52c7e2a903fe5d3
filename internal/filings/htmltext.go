// Package filings turns raw SEC filing documents into indexed chunk
// records: HTML stripping, section classification, quality scoring and
// overlapping word-window chunking.
package filings

import (
	"regexp"
	"strings"
)

var (
	scriptPattern = regexp.MustCompile(`(?is)<script.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// htmlEntities covers the entities that actually occur in EDGAR filings.
var htmlEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#8217;", "'",
	"&#8220;", `"`,
	"&#8221;", `"`,
	"&#8211;", "-",
	"&#8212;", "-",
)

// StripHTML reduces filing HTML to plain text: scripts and styles are
// removed whole, remaining tags dropped, entities decoded and whitespace
// collapsed.
func StripHTML(html string) string {
	text := scriptPattern.ReplaceAllString(html, " ")
	text = stylePattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = htmlEntities.Replace(text)
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// indexPageIndicators mark EDGAR index and XBRL viewer pages, which
// carry navigation chrome instead of filing content.
var indexPageIndicators = []string{
	"filing detail",
	"edgar filing documents",
	"xbrl viewer",
	"ixviewer",
	"this page uses javascript",
	"edgar-logo",
	"latest filings",
	"filings search tools",
}

// IsIndexPage reports whether the text looks like an EDGAR index or
// viewer page rather than actual filing content. Short documents with
// several navigation markers are classified as index pages.
func IsIndexPage(text string) bool {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	hits := 0
	for _, ind := range indexPageIndicators {
		if strings.Contains(lower, ind) {
			hits++
		}
	}
	if hits >= 3 && words < 1000 {
		return true
	}
	return strings.Contains(lower, "filing detail") &&
		strings.Contains(lower, "edgar") && words < 500
}
