package domain

import "strings"

// FilingType is an SEC form code.
type FilingType string

// Supported SEC form codes.
const (
	Filing10K    FilingType = "10-K"
	Filing10Q    FilingType = "10-Q"
	Filing8K     FilingType = "8-K"
	FilingProxy  FilingType = "DEF 14A"
	FilingForm3  FilingType = "3"
	FilingForm4  FilingType = "4"
	FilingForm5  FilingType = "5"
)

// FilingTypes lists every supported form code in collection order.
func FilingTypes() []FilingType {
	return []FilingType{
		Filing10K, Filing10Q, Filing8K, FilingProxy,
		FilingForm3, FilingForm4, FilingForm5,
	}
}

// Valid reports whether the form code is one this system collects.
func (f FilingType) Valid() bool {
	switch f {
	case Filing10K, Filing10Q, Filing8K, FilingProxy,
		FilingForm3, FilingForm4, FilingForm5:
		return true
	}
	return false
}

// ChunkMetadata describes where a chunk came from and how useful it is.
// Every field is required at ingestion except SectionType and QualityScore,
// which default to "general" and 0.
type ChunkMetadata struct {
	// Ticker is the company ticker symbol (upper case).
	Ticker string

	// FilingType is the SEC form code the chunk was extracted from.
	FilingType FilingType

	// FilingDate is the filing date in ISO format (YYYY-MM-DD).
	FilingDate string

	// SectionType is the identified filing section
	// (risk_factors, management_discussion, ...).
	SectionType string

	// QualityScore estimates the density of financial content, in [0,1].
	QualityScore float64
}

// Chunk is a bounded, independently retrievable unit of filing text.
// Chunks are immutable once created and owned by the vector store after
// ingestion.
type Chunk struct {
	// ID is the unique chunk identifier (TICKER_TYPE_DATE_NNNN).
	ID string

	// Text is the chunk content.
	Text string

	// Metadata carries the citation-grade fields.
	Metadata ChunkMetadata
}

// Validate checks structural completeness. It does not judge filing
// correctness, only that the record can be indexed and cited.
func (c Chunk) Validate() error {
	if c.ID == "" || strings.TrimSpace(c.Text) == "" {
		return ErrInvalidInput
	}
	if c.Metadata.Ticker == "" || c.Metadata.FilingDate == "" {
		return ErrInvalidInput
	}
	if !c.Metadata.FilingType.Valid() {
		return ErrInvalidInput
	}
	return nil
}
