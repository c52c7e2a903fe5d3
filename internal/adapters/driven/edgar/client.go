// Package edgar fetches filings from the SEC EDGAR system.
//
// EDGAR has no API key but enforces a fair-access policy: at most
// 10 requests per second, and every request must carry a descriptive
// User-Agent identifying the caller. The client throttles proactively
// with a token bucket so it never trips the server-side limit.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/filings"
)

const (
	// DefaultArchiveURL serves the filing documents themselves.
	DefaultArchiveURL = "https://www.sec.gov"

	// DefaultDataURL serves the structured submissions API.
	DefaultDataURL = "https://data.sec.gov"

	// ProactiveRate is the EDGAR fair-access limit (10 req/sec).
	ProactiveRate = 10

	// DefaultUserAgent identifies this tool per EDGAR policy. Override
	// it with a real contact address via WithUserAgent.
	DefaultUserAgent = "finsight-cli research@finsight-labs.example"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps document downloads. Large 10-Ks run a few MB;
	// anything past this is an exhibit blob we don't want.
	maxBodySize = 32 << 20
)

// tickerCIKs maps covered tickers to their EDGAR Central Index Keys.
// Kept static because the covered universe is fixed; extending it means
// extending domain.Companies too.
var tickerCIKs = map[string]int{
	"AAPL":  320193,
	"MSFT":  789019,
	"GOOGL": 1652044,
	"JPM":   19617,
	"BAC":   70858,
	"WFC":   72971,
	"JNJ":   200406,
	"PFE":   78003,
	"XOM":   34088,
	"CVX":   93410,
	"AMZN":  1018724,
	"WMT":   104169,
	"GE":    40545,
	"CAT":   18230,
	"BA":    12927,
}

// Client implements driven.FilingSource against SEC EDGAR.
type Client struct {
	httpClient *http.Client
	archiveURL string
	dataURL    string
	userAgent  string
	bucket     *rate.Limiter
}

var _ driven.FilingSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent to EDGAR.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithBaseURLs overrides the EDGAR endpoints (used in tests).
func WithBaseURLs(archiveURL, dataURL string) Option {
	return func(c *Client) {
		c.archiveURL = strings.TrimRight(archiveURL, "/")
		c.dataURL = strings.TrimRight(dataURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an EDGAR client with proactive throttling.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		archiveURL: DefaultArchiveURL,
		dataURL:    DefaultDataURL,
		userAgent:  DefaultUserAgent,
		bucket:     rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// submissions mirrors the slice-of-columns layout of the EDGAR
// submissions API. Row i across the slices describes one filing.
type submissions struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Fetch downloads up to limit recent filings of the given form type.
// The returned filings carry plain text with HTML already stripped.
func (c *Client) Fetch(ctx context.Context, ticker string, filingType domain.FilingType, limit int) ([]domain.Filing, error) {
	ticker = strings.ToUpper(ticker)
	cik, ok := tickerCIKs[ticker]
	if !ok {
		return nil, fmt.Errorf("ticker %q not covered: %w", ticker, domain.ErrNotFound)
	}
	if limit <= 0 {
		limit = 1
	}

	subs, err := c.fetchSubmissions(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for %s: %w", ticker, err)
	}

	recent := subs.Filings.Recent
	var result []domain.Filing
	for i := range recent.Form {
		if len(result) >= limit {
			break
		}
		if recent.Form[i] != string(filingType) {
			continue
		}

		accession := recent.AccessionNumber[i]
		doc := recent.PrimaryDocument[i]
		content, err := c.fetchDocument(ctx, cik, accession, doc)
		if err != nil {
			return result, fmt.Errorf("fetch %s %s: %w", ticker, accession, err)
		}
		if filings.IsIndexPage(content) {
			continue
		}

		id := accession
		if id == "" {
			id = uuid.NewString()
		}
		result = append(result, domain.Filing{
			ID:          id,
			Ticker:      ticker,
			FilingType:  filingType,
			FilingDate:  recent.FilingDate[i],
			AccessionNo: accession,
			SourceURL:   c.documentURL(cik, accession, doc),
			Content:     content,
			FetchedAt:   time.Now().UTC(),
		})
	}

	return result, nil
}

// Close releases resources. The HTTP client needs no teardown.
func (c *Client) Close() error {
	return nil
}

// fetchSubmissions retrieves the filing history index for a CIK.
func (c *Client) fetchSubmissions(ctx context.Context, cik int) (*submissions, error) {
	url := fmt.Sprintf("%s/submissions/CIK%010d.json", c.dataURL, cik)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var subs submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	r := subs.Filings.Recent
	if len(r.AccessionNumber) != len(r.Form) ||
		len(r.Form) != len(r.FilingDate) ||
		len(r.FilingDate) != len(r.PrimaryDocument) {
		return nil, fmt.Errorf("decode submissions: column lengths differ")
	}
	return &subs, nil
}

// fetchDocument downloads one filing document and strips it to text.
func (c *Client) fetchDocument(ctx context.Context, cik int, accession, doc string) (string, error) {
	body, err := c.get(ctx, c.documentURL(cik, accession, doc))
	if err != nil {
		return "", err
	}
	return filings.StripHTML(string(body)), nil
}

// documentURL builds the archive URL for a primary document.
// Archive paths use the accession number without dashes.
func (c *Client) documentURL(cik int, accession, doc string) string {
	return fmt.Sprintf("%s/Archives/edgar/data/%d/%s/%s",
		c.archiveURL, cik, strings.ReplaceAll(accession, "-", ""), doc)
}

// get performs a throttled GET with the required headers.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.bucket.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
