// Package file provides a file-backed vector store. The corpus lives in
// memory during serving and persists as a single JSON snapshot written
// atomically, so a crash mid-write never corrupts committed state.
package file

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultTopK bounds result counts when the caller does not say.
const DefaultTopK = 10

// scoringProfile holds the method-dependent hybrid weights. The fallback
// embedder's semantic signal is noisy, so its profile trusts keywords
// more and lowers the admission bar.
type scoringProfile struct {
	semanticWeight float64
	keywordWeight  float64
	minScore       float64
}

var profiles = map[domain.EmbeddingMethod]scoringProfile{
	domain.MethodPrimary:  {semanticWeight: 0.7, keywordWeight: 0.3, minScore: 0.1},
	domain.MethodFallback: {semanticWeight: 0.4, keywordWeight: 0.6, minScore: 0.05},
}

// indexed metadata fields, in snapshot order.
const (
	fieldTicker     = "ticker"
	fieldFilingType = "filing_type"
	fieldFilingDate = "filing_date"
	fieldSection    = "section_type"
)

// Config holds configuration for the store.
type Config struct {
	// Path is the snapshot file location.
	Path string

	// Method is the embedding method this process runs with. A snapshot
	// built with a different method fails to load.
	Method domain.EmbeddingMethod

	// Dimensions is the expected embedding width.
	Dimensions int
}

// Store is an in-memory corpus with a metadata index and JSON snapshot
// persistence. Reads take a shared lock; ingestion is single-writer by
// contract, the lock only guards against load/save races.
type Store struct {
	mu sync.RWMutex

	path       string
	method     domain.EmbeddingMethod
	dimensions int

	loaded     bool
	chunks     map[string]domain.Chunk
	embeddings map[string][]float32
	order      []string

	// index maps field -> value -> chunk ids, maintained on every Add.
	// Filters resolve by set intersection instead of a corpus scan.
	index map[string]map[string]map[string]struct{}
}

// NewStore creates a store. Nothing is read from disk until first use.
func NewStore(cfg Config) *Store {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	return &Store{
		path:       cfg.Path,
		method:     cfg.Method,
		dimensions: cfg.Dimensions,
		chunks:     make(map[string]domain.Chunk),
		embeddings: make(map[string][]float32),
		index:      make(map[string]map[string]map[string]struct{}),
	}
}

// Add indexes chunks with their embeddings. Existing IDs are overwritten
// in place; new IDs append to the corpus order.
func (s *Store) Add(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks with %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	for i, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return fmt.Errorf("chunk %q: %w", chunk.ID, err)
		}
		if len(embeddings[i]) != s.dimensions {
			return fmt.Errorf("%w: chunk %q embedding has %d dimensions, want %d",
				domain.ErrInvalidInput, chunk.ID, len(embeddings[i]), s.dimensions)
		}
		if _, exists := s.chunks[chunk.ID]; exists {
			s.removeFromIndexLocked(chunk)
		} else {
			s.order = append(s.order, chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
		s.embeddings[chunk.ID] = embeddings[i]
		s.addToIndexLocked(chunk)
	}

	logger.Debug("vector store: indexed %d chunks (total %d)", len(chunks), len(s.chunks))
	return nil
}

// Search scores the filtered corpus and returns results above the active
// method's threshold, ordered by combined score.
func (s *Store) Search(ctx context.Context, query domain.SearchQuery, embedding []float32) (domain.SearchResponse, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		s.mu.Lock()
		err := s.ensureLoadedLocked(ctx)
		s.mu.Unlock()
		if err != nil {
			return domain.SearchResponse{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := domain.SearchResponse{Method: s.method, Results: []domain.SearchResult{}}

	if len(s.chunks) == 0 {
		resp.Status = domain.StatusNoData
		return resp, nil
	}

	candidates := s.candidatesLocked(query.Filters)
	if len(candidates) == 0 {
		resp.Status = domain.StatusNoMatches
		return resp, nil
	}

	profile := profiles[s.method]
	semW := profile.semanticWeight
	kwW := profile.keywordWeight
	if query.KeywordBoost > 0 {
		kwW += query.KeywordBoost
		semW = math.Max(0, semW-query.KeywordBoost)
	}

	keywords := Keywords(query.Text)

	for _, id := range candidates {
		chunk := s.chunks[id]

		semantic := clamp01(dot(embedding, s.embeddings[id]))
		keyword := keywordScore(chunk.Text, keywords)
		combined := semW*semantic + kwW*keyword

		if combined <= profile.minScore {
			continue
		}
		resp.Results = append(resp.Results, domain.SearchResult{
			ChunkID:       chunk.ID,
			Text:          chunk.Text,
			Metadata:      chunk.Metadata,
			Score:         combined,
			SemanticScore: semantic,
			KeywordScore:  keyword,
		})
	}

	if len(resp.Results) == 0 {
		resp.Status = domain.StatusNoMatches
		return resp, nil
	}

	domain.SortResults(resp.Results, query.RecencyBias)

	topK := query.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(resp.Results) > topK {
		resp.Results = resp.Results[:topK]
	}
	resp.Status = domain.StatusOK
	return resp, nil
}

// Count returns the number of indexed chunks matching the filters.
func (s *Store) Count(ctx context.Context, filters domain.SearchFilters) (int, error) {
	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if filters.Empty() {
		return len(s.chunks), nil
	}
	return len(s.candidatesLocked(filters)), nil
}

// Tickers returns the distinct tickers present in the index, sorted.
func (s *Store) Tickers(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	tickers := make([]string, 0, len(s.index[fieldTicker]))
	for t := range s.index[fieldTicker] {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// Method returns the embedding method the index runs with, or "" when
// nothing is indexed yet.
func (s *Store) Method(ctx context.Context) (domain.EmbeddingMethod, error) {
	s.mu.Lock()
	err := s.ensureLoadedLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.chunks) == 0 {
		return "", nil
	}
	return s.method, nil
}

// Load restores the snapshot, verifying it was built with the given
// embedding method. Loading twice is a no-op.
func (s *Store) Load(_ context.Context, method domain.EmbeddingMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = method
	return s.loadLocked()
}

// Save writes the snapshot atomically: marshal to a temp file in the
// same directory, then rename over the previous snapshot.
func (s *Store) Save(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		Version:    1,
		Method:     s.method,
		Dimensions: s.dimensions,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Chunks:     make([]snapshotChunk, 0, len(s.order)),
	}
	for _, id := range s.order {
		chunk := s.chunks[id]
		snap.Chunks = append(snap.Chunks, snapshotChunk{
			ID:           chunk.ID,
			Text:         chunk.Text,
			Ticker:       chunk.Metadata.Ticker,
			FilingType:   string(chunk.Metadata.FilingType),
			FilingDate:   chunk.Metadata.FilingDate,
			SectionType:  chunk.Metadata.SectionType,
			QualityScore: chunk.Metadata.QualityScore,
			Embedding:    encodeEmbedding(s.embeddings[id]),
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit snapshot: %w", err)
	}

	logger.Debug("vector store: saved %d chunks to %s", len(snap.Chunks), s.path)
	return nil
}

// Close releases resources. The in-memory corpus is dropped; the caller
// is expected to Save first if it ingested anything.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]domain.Chunk)
	s.embeddings = make(map[string][]float32)
	s.order = nil
	s.index = make(map[string]map[string]map[string]struct{})
	s.loaded = false
	return nil
}

// ensureLoadedLocked performs the lazy first load. Callers hold the
// write lock.
func (s *Store) ensureLoadedLocked(_ context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// Fresh store: nothing on disk yet.
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Method != s.method {
		return fmt.Errorf("%w: snapshot built with %q, process running %q",
			domain.ErrMethodMismatch, snap.Method, s.method)
	}
	if snap.Dimensions != s.dimensions {
		return fmt.Errorf("%w: snapshot has %d dimensions, want %d",
			domain.ErrMethodMismatch, snap.Dimensions, s.dimensions)
	}

	s.chunks = make(map[string]domain.Chunk, len(snap.Chunks))
	s.embeddings = make(map[string][]float32, len(snap.Chunks))
	s.order = make([]string, 0, len(snap.Chunks))
	s.index = make(map[string]map[string]map[string]struct{})

	for _, sc := range snap.Chunks {
		embedding, err := decodeEmbedding(sc.Embedding)
		if err != nil {
			return fmt.Errorf("decode embedding for chunk %q: %w", sc.ID, err)
		}
		chunk := domain.Chunk{
			ID:   sc.ID,
			Text: sc.Text,
			Metadata: domain.ChunkMetadata{
				Ticker:       sc.Ticker,
				FilingType:   domain.FilingType(sc.FilingType),
				FilingDate:   sc.FilingDate,
				SectionType:  sc.SectionType,
				QualityScore: sc.QualityScore,
			},
		}
		s.chunks[chunk.ID] = chunk
		s.embeddings[chunk.ID] = embedding
		s.order = append(s.order, chunk.ID)
		s.addToIndexLocked(chunk)
	}

	s.loaded = true
	logger.Info("vector store: loaded %d chunks from %s", len(s.chunks), s.path)
	return nil
}

// candidatesLocked resolves filters to chunk IDs by index intersection.
// Empty filters return the whole corpus in insertion order.
func (s *Store) candidatesLocked(filters domain.SearchFilters) []string {
	if filters.Empty() {
		out := make([]string, len(s.order))
		copy(out, s.order)
		return out
	}

	var sets []map[string]struct{}

	if filters.Ticker != "" {
		sets = append(sets, s.index[fieldTicker][strings.ToUpper(filters.Ticker)])
	}
	if len(filters.Tickers) > 0 {
		union := make(map[string]struct{})
		for _, t := range filters.Tickers {
			for id := range s.index[fieldTicker][strings.ToUpper(t)] {
				union[id] = struct{}{}
			}
		}
		sets = append(sets, union)
	}
	if filters.FilingType != "" {
		sets = append(sets, s.index[fieldFilingType][string(filters.FilingType)])
	}

	for _, set := range sets {
		if len(set) == 0 {
			return nil
		}
	}

	out := make([]string, 0)
	for _, id := range s.order {
		ok := true
		for _, set := range sets {
			if _, in := set[id]; !in {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		// ISO dates compare lexicographically.
		date := s.chunks[id].Metadata.FilingDate
		if filters.DateFrom != "" && date < filters.DateFrom {
			continue
		}
		if filters.DateTo != "" && date > filters.DateTo {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *Store) addToIndexLocked(chunk domain.Chunk) {
	s.indexField(fieldTicker, chunk.Metadata.Ticker, chunk.ID)
	s.indexField(fieldFilingType, string(chunk.Metadata.FilingType), chunk.ID)
	s.indexField(fieldFilingDate, chunk.Metadata.FilingDate, chunk.ID)
	if chunk.Metadata.SectionType != "" {
		s.indexField(fieldSection, chunk.Metadata.SectionType, chunk.ID)
	}
}

func (s *Store) removeFromIndexLocked(chunk domain.Chunk) {
	old, ok := s.chunks[chunk.ID]
	if !ok {
		return
	}
	for field, value := range map[string]string{
		fieldTicker:     old.Metadata.Ticker,
		fieldFilingType: string(old.Metadata.FilingType),
		fieldFilingDate: old.Metadata.FilingDate,
		fieldSection:    old.Metadata.SectionType,
	} {
		if byValue, ok := s.index[field]; ok {
			if ids, ok := byValue[value]; ok {
				delete(ids, chunk.ID)
				if len(ids) == 0 {
					delete(byValue, value)
				}
			}
		}
	}
}

func (s *Store) indexField(field, value, id string) {
	byValue, ok := s.index[field]
	if !ok {
		byValue = make(map[string]map[string]struct{})
		s.index[field] = byValue
	}
	ids, ok := byValue[value]
	if !ok {
		ids = make(map[string]struct{})
		byValue[value] = ids
	}
	ids[id] = struct{}{}
}

// snapshot is the persisted layout.
type snapshot struct {
	Version    int                    `json:"version"`
	Method     domain.EmbeddingMethod `json:"active_method"`
	Dimensions int                    `json:"dimensions"`
	CreatedAt  string                 `json:"created_at"`
	Chunks     []snapshotChunk        `json:"chunks"`
}

type snapshotChunk struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	Ticker       string  `json:"ticker"`
	FilingType   string  `json:"filing_type"`
	FilingDate   string  `json:"filing_date"`
	SectionType  string  `json:"section_type,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty"`
	Embedding    string  `json:"embedding"` // base64 little-endian float32
}

// encodeEmbedding packs float32s as little-endian bytes, base64 encoded.
// A binary blob keeps snapshots a fraction of the size of a JSON number
// array.
func encodeEmbedding(vec []float32) string {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func decodeEmbedding(enc string) ([]float32, error) {
	buf, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}

func dot(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// queryStopwords are dropped before keyword scoring.
var queryStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "what": {}, "how": {}, "when": {},
	"where": {}, "why": {},
}

// Keywords extracts the meaningful terms from a query for keyword
// scoring. Stopwords and very short tokens are dropped.
func Keywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if _, stop := queryStopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// keywordScore measures token overlap between the query keywords and the
// chunk text. A whole-word match counts full weight, a substring match
// half, normalised to [0,1] by the keyword count.
func keywordScore(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	}) {
		words[w] = struct{}{}
	}

	var score float64
	for _, kw := range keywords {
		if _, ok := words[kw]; ok {
			score += 1
		} else if strings.Contains(lower, kw) {
			score += 0.5
		}
	}
	return score / float64(len(keywords))
}
