package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
	"github.com/finsight-labs/finsight-cli/internal/filings"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService builds the searchable index from filings. Ingestion is
// single-writer: callers must not run it concurrently with another
// ingestion.
type IngestService struct {
	embedder    driven.Embedder
	store       driven.VectorStore
	filingStore driven.FilingStore
	source      driven.FilingSource
	chunker     *filings.Chunker
}

// NewIngestService creates an ingest service. filingStore and source
// are optional (can be nil); without them only IngestFilings works.
func NewIngestService(
	embedder driven.Embedder,
	store driven.VectorStore,
	filingStore driven.FilingStore,
	source driven.FilingSource,
) *IngestService {
	return &IngestService{
		embedder:    embedder,
		store:       store,
		filingStore: filingStore,
		source:      source,
		chunker:     filings.NewChunker(),
	}
}

// IngestFilings chunks, embeds and indexes the given filings, then
// persists the index. Malformed filings and chunks are skipped with a
// warning and counted; they never fail the run.
func (s *IngestService) IngestFilings(ctx context.Context, batch []domain.Filing) (domain.IngestReport, error) {
	logger.Section("Ingestion")
	started := time.Now()
	report := domain.IngestReport{}

	var chunks []domain.Chunk
	for _, filing := range batch {
		if err := filing.Validate(); err != nil {
			logger.Warn("skipping malformed filing %s %s %s: %v",
				filing.Ticker, filing.FilingType, filing.FilingDate, err)
			report.FilingsSkipped++
			continue
		}
		produced := s.chunker.Chunk(filing)
		if len(produced) == 0 {
			report.FilingsSkipped++
			continue
		}
		report.FilingsProcessed++

		for _, chunk := range produced {
			if err := chunk.Validate(); err != nil {
				logger.Warn("skipping malformed chunk %s: %v", chunk.ID, err)
				report.ChunksSkipped++
				continue
			}
			chunks = append(chunks, chunk)
		}
	}

	if len(chunks) == 0 {
		report.Duration = time.Since(started)
		logger.Info("ingestion produced no chunks (%d filings skipped)", report.FilingsSkipped)
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	// The fallback embedder derives its vocabulary here; the primary
	// treats Fit as a no-op.
	if err := s.embedder.Fit(ctx, texts); err != nil {
		return report, fmt.Errorf("fit embedder: %w", err)
	}

	logger.Info("embedding %d chunks with %s", len(chunks), s.embedder.ModelName())
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("embed chunks: %w", err)
	}

	if err := s.store.Add(ctx, chunks, embeddings); err != nil {
		return report, fmt.Errorf("index chunks: %w", err)
	}
	if err := s.store.Save(ctx); err != nil {
		return report, fmt.Errorf("persist index: %w", err)
	}

	report.ChunksIndexed = len(chunks)
	report.Duration = time.Since(started)
	logger.Info("ingestion complete: %d filings, %d chunks indexed, %d chunks skipped",
		report.FilingsProcessed, report.ChunksIndexed, report.ChunksSkipped)
	return report, nil
}

// IngestStored re-ingests filings from the filing store, optionally
// restricted to one ticker.
func (s *IngestService) IngestStored(ctx context.Context, ticker string) (domain.IngestReport, error) {
	if s.filingStore == nil {
		return domain.IngestReport{}, fmt.Errorf("ingest stored filings: %w", domain.ErrNotFound)
	}
	stored, err := s.filingStore.List(ctx, ticker, "")
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("list stored filings: %w", err)
	}
	return s.IngestFilings(ctx, stored)
}

// Fetch downloads filings for the tickers into the filing store and
// returns how many were stored. Per-ticker failures are logged and
// skipped so one bad ticker doesn't abort the batch.
func (s *IngestService) Fetch(ctx context.Context, tickers []string, filingType domain.FilingType, limit int) (int, error) {
	if s.source == nil || s.filingStore == nil {
		return 0, fmt.Errorf("fetch filings: %w", domain.ErrNotFound)
	}

	stored := 0
	for _, ticker := range tickers {
		if _, ok := domain.LookupCompany(ticker); !ok {
			logger.Warn("skipping unknown ticker %s", ticker)
			continue
		}
		fetched, err := s.source.Fetch(ctx, ticker, filingType, limit)
		if err != nil {
			logger.Warn("fetch %s %s: %v", ticker, filingType, err)
			continue
		}
		for _, filing := range fetched {
			if err := s.filingStore.Put(ctx, filing); err != nil {
				logger.Warn("store filing %s: %v", filing.ID, err)
				continue
			}
			stored++
		}
	}
	return stored, nil
}
