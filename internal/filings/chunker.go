package filings

import (
	"fmt"
	"strings"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Chunking parameters, in words. Overlap keeps sentences that straddle a
// boundary retrievable from both sides.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200

	// minDocumentWords rejects stub documents (index pages, cover
	// sheets) before chunking.
	minDocumentWords = 100

	// minChunkChars drops trailing fragments too small to rank.
	minChunkChars = 50
)

// Chunker splits filing text into overlapping word windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker with the default window geometry.
func NewChunker() *Chunker {
	return &Chunker{chunkSize: DefaultChunkSize, overlap: DefaultOverlap}
}

// NewChunkerWithSize creates a chunker with explicit geometry, used by
// tests and tuning experiments.
func NewChunkerWithSize(chunkSize, overlap int) *Chunker {
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk turns one filing into chunk records. Documents that are too
// short or look like EDGAR index pages yield no chunks; the caller
// counts them as skipped rather than failing ingestion.
func (c *Chunker) Chunk(filing domain.Filing) []domain.Chunk {
	text := strings.TrimSpace(filing.Content)
	if text == "" {
		return nil
	}
	if IsIndexPage(text) {
		logger.Debug("skipping index page: %s %s %s", filing.Ticker, filing.FilingType, filing.FilingDate)
		return nil
	}

	words := strings.Fields(text)
	if len(words) < minDocumentWords {
		logger.Debug("skipping short document (%d words): %s %s %s",
			len(words), filing.Ticker, filing.FilingType, filing.FilingDate)
		return nil
	}

	var chunks []domain.Chunk
	start := 0
	counter := 0
	for start < len(words) {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunkText := strings.Join(words[start:end], " ")
		if len(strings.TrimSpace(chunkText)) < minChunkChars {
			break
		}

		chunks = append(chunks, domain.Chunk{
			ID:   chunkID(filing, counter),
			Text: chunkText,
			Metadata: domain.ChunkMetadata{
				Ticker:       filing.Ticker,
				FilingType:   filing.FilingType,
				FilingDate:   filing.FilingDate,
				SectionType:  ClassifySection(chunkText, filing.FilingType),
				QualityScore: QualityScore(chunkText),
			},
		})
		counter++

		next := end - c.overlap
		// Always make progress even with pathological geometry.
		if next <= start {
			next = start + max(1, c.chunkSize/2)
		}
		start = next
		if start >= len(words) {
			break
		}
	}
	return chunks
}

func chunkID(filing domain.Filing, index int) string {
	return fmt.Sprintf("%s_%s_%s_%04d", filing.Ticker, filing.FilingType, filing.FilingDate, index)
}
