package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// EntityExtractor recognises companies, time periods, filing types and
// financial concepts in a raw query. All matching is lexicon-driven and
// deterministic; no model calls.
type EntityExtractor struct {
	tickerPatterns map[string]*regexp.Regexp
	aliasPatterns  map[string]*regexp.Regexp
	namePatterns   map[string]*regexp.Regexp
}

// yearPattern bounds plausible filing years.
var yearPattern = regexp.MustCompile(`\b(20[2-4][0-9])\b`)

// quarterPatterns recognise explicit quarter notations.
var quarterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bq[1-4]\b`),
	regexp.MustCompile(`(?i)\b[1-4]q\b`),
	regexp.MustCompile(`(?i)\b(first|second|third|fourth) quarter\b`),
}

// relativeTimeTerms are recognised but left unresolved; mapping them to
// absolute dates is the caller's concern.
var relativeTimeTerms = []string{
	"recent", "latest", "current", "last year", "this year",
	"over time", "historical", "trend", "evolution",
}

// filingTypePatterns map form codes and descriptive synonyms to the
// codes the corpus is tagged with.
var filingTypePatterns = []struct {
	pattern *regexp.Regexp
	types   []domain.FilingType
}{
	{regexp.MustCompile(`(?i)\b10-k\b`), []domain.FilingType{domain.Filing10K}},
	{regexp.MustCompile(`(?i)\bannual report\b`), []domain.FilingType{domain.Filing10K}},
	{regexp.MustCompile(`(?i)\b10-q\b`), []domain.FilingType{domain.Filing10Q}},
	{regexp.MustCompile(`(?i)\bquarterly report\b`), []domain.FilingType{domain.Filing10Q}},
	{regexp.MustCompile(`(?i)\b8-k\b`), []domain.FilingType{domain.Filing8K}},
	{regexp.MustCompile(`(?i)\bcurrent report\b`), []domain.FilingType{domain.Filing8K}},
	{regexp.MustCompile(`(?i)\bproxy\b`), []domain.FilingType{domain.FilingProxy}},
	{regexp.MustCompile(`(?i)\bdef 14a\b`), []domain.FilingType{domain.FilingProxy}},
	{regexp.MustCompile(`(?i)\binsider trading\b`), []domain.FilingType{domain.FilingForm3, domain.FilingForm4, domain.FilingForm5}},
	{regexp.MustCompile(`(?i)\bform [345]\b`), []domain.FilingType{domain.FilingForm3, domain.FilingForm4, domain.FilingForm5}},
}

// conceptLexicon maps concept tags to trigger phrases, matched whole-word
// and case-insensitively.
var conceptLexicon = map[string][]string{
	"revenue":                {"revenue", "sales", "income", "earnings"},
	"expenses":               {"expenses", "costs", "spending"},
	"profit":                 {"profit", "net income", "earnings"},
	"cash_flow":              {"cash flow", "operating cash", "free cash flow"},
	"debt":                   {"debt", "liabilities", "borrowing"},
	"assets":                 {"assets", "balance sheet"},
	"risk_factors":           {"risk", "risks", "risk factors"},
	"competition":            {"competition", "competitive", "competitors"},
	"r&d":                    {"r&d", "research", "development", "innovation"},
	"acquisitions":           {"acquisition", "merger", "m&a"},
	"executive_compensation": {"compensation", "executive pay", "salary"},
	"working_capital":        {"working capital", "current assets"},
	"climate":                {"climate", "environmental", "sustainability"},
	"ai_automation":          {"ai", "artificial intelligence", "automation", "technology"},
}

// comparisonLexicon triggers comparison intent, but only together with
// at least two distinct tickers.
var comparisonLexicon = []string{
	"compare", "comparison", "versus", "vs", "against",
	"difference", "similar", "contrast", "between",
}

// companyContextCues make a short-ticker match plausible. Tickers of one
// or two letters (GE, BA) collide with ordinary English too easily to
// accept bare.
var companyContextCues = []string{
	"company", "companies", "corp", "corporation", "stock", "shares",
	"ticker", "filing", "filings", "earnings", "report", "reports",
	"investor", "quarterly", "annual",
}

var (
	conceptPatterns    map[string][]*regexp.Regexp
	comparisonPatterns []*regexp.Regexp
	cuePatterns        []*regexp.Regexp
)

func init() {
	conceptPatterns = make(map[string][]*regexp.Regexp, len(conceptLexicon))
	for concept, phrases := range conceptLexicon {
		for _, p := range phrases {
			conceptPatterns[concept] = append(conceptPatterns[concept], wordPattern(p))
		}
	}
	for _, kw := range comparisonLexicon {
		comparisonPatterns = append(comparisonPatterns, wordPattern(kw))
	}
	for _, cue := range companyContextCues {
		cuePatterns = append(cuePatterns, wordPattern(cue))
	}
}

// NewEntityExtractor compiles the lexicon patterns once.
func NewEntityExtractor() *EntityExtractor {
	e := &EntityExtractor{
		tickerPatterns: make(map[string]*regexp.Regexp, len(domain.Companies)),
		aliasPatterns:  make(map[string]*regexp.Regexp, len(domain.CompanyAliases)),
		namePatterns:   make(map[string]*regexp.Regexp, len(domain.Companies)),
	}
	for ticker, company := range domain.Companies {
		if len(ticker) <= 2 {
			// Short tickers match case-sensitively, as written on the
			// tape, and still need a context cue to be accepted.
			e.tickerPatterns[ticker] = regexp.MustCompile(`\b` + regexp.QuoteMeta(ticker) + `\b`)
		} else {
			e.tickerPatterns[ticker] = wordPattern(ticker)
		}
		e.namePatterns[ticker] = wordPattern(strings.ToLower(company.Name))
	}
	for alias := range domain.CompanyAliases {
		e.aliasPatterns[alias] = wordPattern(alias)
	}
	return e
}

// wordPattern builds a case-insensitive whole-word matcher for a phrase.
func wordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// Extract recognises all entity kinds in one pass. It never fails: a
// query with nothing recognisable yields an empty context.
func (e *EntityExtractor) Extract(query string) domain.QueryContext {
	ctx := domain.QueryContext{
		Tickers:     e.extractTickers(query),
		FilingTypes: extractFilingTypes(query),
		Concepts:    extractConcepts(query),
	}
	ctx.TimePeriods, ctx.Years = extractTimePeriods(query)
	ctx.ComparisonIntent = hasComparisonLanguage(query) && len(ctx.Tickers) >= 2

	logger.Debug("extracted entities: tickers=%v periods=%v types=%v concepts=%v comparison=%v",
		ctx.Tickers, ctx.TimePeriods, ctx.FilingTypes, ctx.Concepts, ctx.ComparisonIntent)
	return ctx
}

// extractTickers matches ticker symbols, company names and aliases,
// always whole-word. Substring matching on 2-3 letter tickers false
// positives against common English words and is rejected by construction.
func (e *EntityExtractor) extractTickers(query string) []string {
	found := make(map[string]struct{})

	for ticker, pattern := range e.tickerPatterns {
		if !pattern.MatchString(query) {
			continue
		}
		if len(ticker) <= 2 && !e.shortTickerPlausible(ticker, query) {
			logger.Debug("rejected short ticker %s: no company context", ticker)
			continue
		}
		found[ticker] = struct{}{}
	}
	for ticker, pattern := range e.namePatterns {
		if pattern.MatchString(query) {
			found[ticker] = struct{}{}
		}
	}
	for alias, pattern := range e.aliasPatterns {
		if pattern.MatchString(query) {
			found[domain.CompanyAliases[alias]] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(found))
	for t := range found {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// shortTickerPlausible is the best-effort guard for 1-2 letter tickers:
// accept only when the surrounding query plausibly talks about companies,
// or the company is also named by an alias.
func (e *EntityExtractor) shortTickerPlausible(ticker, query string) bool {
	lower := strings.ToLower(query)
	for alias, aliased := range domain.CompanyAliases {
		if aliased == ticker && strings.Contains(lower, alias) {
			return true
		}
	}
	for _, cue := range cuePatterns {
		if cue.MatchString(lower) {
			return true
		}
	}
	return false
}

func extractTimePeriods(query string) (periods, years []string) {
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			periods = append(periods, p)
		}
	}

	for _, y := range yearPattern.FindAllString(query, -1) {
		add(y)
		years = append(years, y)
	}
	years = dedupe(years)

	for _, p := range quarterPatterns {
		for _, m := range p.FindAllString(query, -1) {
			add(strings.ToUpper(m))
		}
	}

	lower := strings.ToLower(query)
	for _, term := range relativeTimeTerms {
		if strings.Contains(lower, term) {
			add(term)
		}
	}
	return periods, years
}

func extractFilingTypes(query string) []domain.FilingType {
	seen := make(map[domain.FilingType]struct{})
	var out []domain.FilingType
	for _, fp := range filingTypePatterns {
		if !fp.pattern.MatchString(query) {
			continue
		}
		for _, ft := range fp.types {
			if _, ok := seen[ft]; !ok {
				seen[ft] = struct{}{}
				out = append(out, ft)
			}
		}
	}
	return out
}

func extractConcepts(query string) []string {
	var out []string
	for concept, patterns := range conceptPatterns {
		for _, p := range patterns {
			if p.MatchString(query) {
				out = append(out, concept)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasComparisonLanguage(query string) bool {
	for _, p := range comparisonPatterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
