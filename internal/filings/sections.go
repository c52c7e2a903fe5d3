package filings

import (
	"regexp"
	"strings"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// contentTypePatterns detect what a chunk of filing text is about.
// Classification is priority ordered: the first matching type wins.
var contentTypePatterns = []struct {
	section  string
	patterns []*regexp.Regexp
}{
	{"compensation", compile(
		`executive\s+compensation`,
		`compensation\s+committee`,
		`base\s+salary`,
	)},
	{"risk", compile(
		`item\s+1a\s*[.\-\s]*risk\s+factors`,
		`risk\s+factors`,
		`principal\s+risks`,
	)},
	{"management_analysis", compile(
		`item\s+7\s*[.\-\s]*management'?s?\s+discussion`,
		`management'?s?\s+discussion\s+and\s+analysis`,
		`md&a`,
	)},
	{"financial", compile(
		`item\s+8\s*[.\-\s]*financial\s+statements`,
		`consolidated\s+statements`,
		`financial\s+statements`,
		`balance\s+sheet`,
	)},
	{"governance", compile(
		`board\s+of\s+directors`,
		`corporate\s+governance`,
		`annual\s+meeting`,
		`proxy\s+statement`,
	)},
	{"business", compile(
		`item\s+1\s*[.\-\s]*business`,
		`business\s+overview`,
		`our\s+business`,
	)},
}

// financialTerms weight the quality score: the denser the financial
// vocabulary, the more useful the chunk is for retrieval.
var financialTerms = []string{
	"revenue", "income", "earnings", "cash flow", "assets", "liabilities",
	"equity", "margin", "expenses", "operations", "fiscal", "quarter",
	"dividend", "shares", "stockholders", "debt", "capital",
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// ClassifySection tags a chunk with the filing section it most likely
// belongs to, falling back to a coarse default for the filing type.
func ClassifySection(text string, filingType domain.FilingType) string {
	for _, ct := range contentTypePatterns {
		for _, p := range ct.patterns {
			if p.MatchString(text) {
				return ct.section
			}
		}
	}
	switch filingType {
	case domain.FilingProxy:
		return "governance"
	case domain.Filing10K, domain.Filing10Q:
		return "financial"
	case domain.Filing8K:
		return "events"
	default:
		return "general"
	}
}

// QualityScore estimates the density of financial content in [0,1]:
// the fraction of the financial vocabulary present, with a small bonus
// for concrete figures.
func QualityScore(text string) float64 {
	lower := strings.ToLower(text)

	hits := 0
	for _, term := range financialTerms {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	score := float64(hits) / float64(len(financialTerms))

	if strings.ContainsAny(lower, "$") || strings.Contains(lower, "%") {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}
