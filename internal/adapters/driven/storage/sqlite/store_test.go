package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func filing(id, ticker, date string) domain.Filing {
	return domain.Filing{
		ID:          id,
		Ticker:      ticker,
		FilingType:  domain.Filing10K,
		FilingDate:  date,
		AccessionNo: "0000320193-23-000106",
		SourceURL:   "https://www.sec.gov/Archives/edgar/data/320193/" + id,
		Content:     "Annual report content for " + ticker,
		FetchedAt:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := filing("f1", "AAPL", "2023-11-03")
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, want.Ticker, got.Ticker)
	assert.Equal(t, want.FilingType, got.FilingType)
	assert.Equal(t, want.FilingDate, got.FilingDate)
	assert.Equal(t, want.AccessionNo, got.AccessionNo)
	assert.Equal(t, want.Content, got.Content)
}

func TestPutReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := filing("f1", "AAPL", "2023-11-03")
	require.NoError(t, s.Put(ctx, f))
	f.Content = "amended content"
	require.NoError(t, s.Put(ctx, f))

	got, err := s.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "amended content", got.Content)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPutRejectsMalformed(t *testing.T) {
	s := newTestStore(t)
	err := s.Put(context.Background(), domain.Filing{ID: "bad"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, filing("a-old", "AAPL", "2021-10-29")))
	require.NoError(t, s.Put(ctx, filing("a-new", "AAPL", "2023-11-03")))
	require.NoError(t, s.Put(ctx, filing("m-1", "MSFT", "2023-07-27")))

	got, err := s.List(ctx, "AAPL", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a-new", got[0].ID, "newest first")
	assert.Equal(t, "a-old", got[1].ID)

	all, err := s.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.List(ctx, "AAPL", domain.Filing10Q)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, filing("f1", "AAPL", "2023-11-03")))
	require.NoError(t, s.Delete(ctx, "f1"))
	require.NoError(t, s.Delete(ctx, "f1"), "deleting a missing filing is not an error")

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
