package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	query, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "Apple revenue")

	assert.NoError(t, err)
	assert.Equal(t, "Apple revenue", query.lastQuery)
	assert.Contains(t, out, "AAPL 10-K 2023-11-03")
	assert.Contains(t, out, "Strategy: filtered")
}

func TestSearchCmd_NoData(t *testing.T) {
	query, _, cleanup := setupTestServices()
	defer cleanup()
	query.response = domain.SearchResponse{Status: domain.StatusNoData}

	out, err := execute("search", "anything")

	assert.NoError(t, err)
	assert.Contains(t, out, "No filings indexed")
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := execute("search", "query")
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestAskCmd_PrintsAnswerWithCitations(t *testing.T) {
	query, _, cleanup := setupTestServices()
	defer cleanup()
	query.answer = domain.Answer{
		Text:       "Revenue grew 12%.",
		Confidence: 0.8,
		Citations: []domain.Citation{
			{Ticker: "AAPL", FilingType: domain.Filing10K, FilingDate: "2023-11-03"},
		},
	}

	out, err := execute("ask", "How did Apple's revenue change?")

	assert.NoError(t, err)
	assert.Contains(t, out, "Revenue grew 12%.")
	assert.Contains(t, out, "Confidence: 80%")
	assert.Contains(t, out, "AAPL 10-K filed 2023-11-03")
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	query, _, cleanup := setupTestServices()
	defer cleanup()
	query.err = domain.ErrLLMUnavailable

	_, err := execute("ask", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finsight search")
}

func TestFetchCmd_RejectsUnknownForm(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("fetch", "AAPL", "--type", "99-X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported form type")
}

func TestFetchCmd_ReportsCount(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("fetch", "AAPL", "MSFT", "--type", "10-K")

	assert.NoError(t, err)
	assert.Contains(t, out, "Fetched 2 filing(s)")
}

func TestStatusCmd_PrintsCorpus(t *testing.T) {
	query, _, cleanup := setupTestServices()
	defer cleanup()
	query.status = domain.CorpusStatus{
		ChunkCount:  10,
		FilingCount: 2,
		Tickers:     []string{"AAPL"},
		Method:      domain.MethodPrimary,
	}

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Chunks indexed: 10")
	assert.Contains(t, out, "LLM: unavailable")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	assert.NoError(t, err)
	assert.Contains(t, out, "finsight version")
}

func TestIngestCmd_WatchNeedsDir(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a directory")
	ingestWatch = false
}

func TestLoadFilingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL_10-K_2023-11-03.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body><p>Revenue grew.</p></body></html>"), 0600))

	f, err := loadFilingFile(path)

	require.NoError(t, err)
	assert.Equal(t, "AAPL", f.Ticker)
	assert.Equal(t, domain.Filing10K, f.FilingType)
	assert.Equal(t, "2023-11-03", f.FilingDate)
	assert.Equal(t, "Revenue grew.", f.Content)
}

func TestLoadFilingFile_BadName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0600))

	_, err := loadFilingFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICKER_TYPE_DATE")
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, 5, coerceValue("5"))
	assert.Equal(t, "all-minilm", coerceValue("all-minilm"))
}
