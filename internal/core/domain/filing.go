package domain

import "time"

// Filing is a raw SEC filing document as fetched from EDGAR, before
// chunking. The sqlite filing store persists these so ingestion can be
// re-run without refetching.
type Filing struct {
	ID          string
	Ticker      string
	FilingType  FilingType
	FilingDate  string // YYYY-MM-DD
	AccessionNo string
	SourceURL   string
	Content     string // plain text, HTML already stripped
	FetchedAt   time.Time
}

// Validate checks the fields ingestion depends on.
func (f Filing) Validate() error {
	if f.Ticker == "" {
		return ErrInvalidInput
	}
	if !f.FilingType.Valid() {
		return ErrInvalidInput
	}
	if f.FilingDate == "" {
		return ErrInvalidInput
	}
	return nil
}

// IngestReport summarises one ingestion run. Skipped items are counted
// rather than failing the run; malformed chunks never poison the index.
type IngestReport struct {
	FilingsProcessed int
	FilingsSkipped   int
	ChunksIndexed    int
	ChunksSkipped    int
	Duration         time.Duration
}
