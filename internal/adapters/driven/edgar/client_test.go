package edgar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

const submissionsJSON = `{
	"filings": {
		"recent": {
			"accessionNumber": ["0000320193-23-000106", "0000320193-23-000077", "0000320193-22-000108"],
			"form": ["10-K", "10-Q", "10-K"],
			"filingDate": ["2023-11-03", "2023-08-04", "2022-10-28"],
			"primaryDocument": ["aapl-20230930.htm", "aapl-20230701.htm", "aapl-20220924.htm"]
		}
	}
}`

const filingHTML = `<html><body>
<h1>Annual Report</h1>
<p>Revenue grew 12% over the prior fiscal year. Risk factors include
supply chain concentration and foreign exchange exposure.</p>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(
		WithBaseURLs(srv.URL, srv.URL),
		WithHTTPClient(srv.Client()),
	)
	return c
}

func TestFetchReturnsMatchingForms(t *testing.T) {
	var gotUserAgent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/submissions/CIK0000320193.json":
			fmt.Fprint(w, submissionsJSON)
		case "/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm",
			"/Archives/edgar/data/320193/000032019322000108/aapl-20220924.htm":
			fmt.Fprint(w, filingHTML)
		default:
			http.NotFound(w, r)
		}
	})

	got, err := c.Fetch(context.Background(), "aapl", domain.Filing10K, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, DefaultUserAgent, gotUserAgent)

	first := got[0]
	assert.Equal(t, "0000320193-23-000106", first.ID)
	assert.Equal(t, "AAPL", first.Ticker)
	assert.Equal(t, domain.Filing10K, first.FilingType)
	assert.Equal(t, "2023-11-03", first.FilingDate)
	assert.Contains(t, first.SourceURL, "/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm")
	assert.Contains(t, first.Content, "Revenue grew 12%")
	assert.NotContains(t, first.Content, "<p>")
	assert.False(t, first.FetchedAt.IsZero())

	assert.Equal(t, "2022-10-28", got[1].FilingDate)
}

func TestFetchHonorsLimit(t *testing.T) {
	var docRequests int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/submissions/CIK0000320193.json" {
			fmt.Fprint(w, submissionsJSON)
			return
		}
		docRequests++
		fmt.Fprint(w, filingHTML)
	})

	got, err := c.Fetch(context.Background(), "AAPL", domain.Filing10K, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, docRequests)
}

func TestFetchUnknownTicker(t *testing.T) {
	c := NewClient()
	_, err := c.Fetch(context.Background(), "ZZZZ", domain.Filing10K, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFetchRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Fetch(context.Background(), "AAPL", domain.Filing10K, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}

func TestFetchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background(), "AAPL", domain.Filing10K, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchMalformedSubmissions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"filings":{"recent":{"accessionNumber":["a"],"form":[],"filingDate":[],"primaryDocument":[]}}}`)
	})

	_, err := c.Fetch(context.Background(), "AAPL", domain.Filing10K, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column lengths differ")
}
