package domain

import "strings"

// Company describes one covered issuer.
type Company struct {
	// Ticker is the exchange symbol (upper case).
	Ticker string

	// Name is the full legal name as it appears on filings.
	Name string

	// Sector is a coarse industry grouping.
	Sector string
}

// Companies is the covered universe: 15 issuers across sectors.
// Entity extraction only recognises tickers and aliases from this table.
var Companies = map[string]Company{
	"AAPL":  {Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	"MSFT":  {Ticker: "MSFT", Name: "Microsoft Corporation", Sector: "Technology"},
	"GOOGL": {Ticker: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology"},
	"JPM":   {Ticker: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Finance"},
	"BAC":   {Ticker: "BAC", Name: "Bank of America Corporation", Sector: "Finance"},
	"WFC":   {Ticker: "WFC", Name: "Wells Fargo & Company", Sector: "Finance"},
	"JNJ":   {Ticker: "JNJ", Name: "Johnson & Johnson", Sector: "Healthcare"},
	"PFE":   {Ticker: "PFE", Name: "Pfizer Inc.", Sector: "Healthcare"},
	"XOM":   {Ticker: "XOM", Name: "Exxon Mobil Corporation", Sector: "Energy"},
	"CVX":   {Ticker: "CVX", Name: "Chevron Corporation", Sector: "Energy"},
	"AMZN":  {Ticker: "AMZN", Name: "Amazon.com Inc.", Sector: "Retail"},
	"WMT":   {Ticker: "WMT", Name: "Walmart Inc.", Sector: "Retail"},
	"GE":    {Ticker: "GE", Name: "General Electric Company", Sector: "Manufacturing"},
	"CAT":   {Ticker: "CAT", Name: "Caterpillar Inc.", Sector: "Manufacturing"},
	"BA":    {Ticker: "BA", Name: "The Boeing Company", Sector: "Manufacturing"},
}

// CompanyAliases maps common company-name variations to tickers.
// Keys are lower case and matched whole-word, case-insensitively.
var CompanyAliases = map[string]string{
	"apple":               "AAPL",
	"microsoft":           "MSFT",
	"google":              "GOOGL",
	"alphabet":            "GOOGL",
	"amazon":              "AMZN",
	"jpmorgan":            "JPM",
	"jp morgan":           "JPM",
	"bank of america":     "BAC",
	"wells fargo":         "WFC",
	"johnson & johnson":   "JNJ",
	"johnson and johnson": "JNJ",
	"pfizer":              "PFE",
	"exxon":               "XOM",
	"exxon mobil":         "XOM",
	"chevron":             "CVX",
	"walmart":             "WMT",
	"general electric":    "GE",
	"caterpillar":         "CAT",
	"boeing":              "BA",
}

// LookupCompany returns the company for a ticker, if covered.
func LookupCompany(ticker string) (Company, bool) {
	c, ok := Companies[strings.ToUpper(ticker)]
	return c, ok
}
