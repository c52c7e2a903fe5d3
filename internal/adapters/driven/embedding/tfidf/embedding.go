// Package tfidf provides the fallback embedding adapter: a local
// TF-IDF pipeline over unigrams and bigrams, reduced to a fixed
// dimensionality with a deterministic hash projection.
//
// The fallback exists so the application never loses search when the
// Ollama server is down. Its vectors are weaker than dense model output,
// which the vector store compensates for with keyword-heavier scoring.
package tfidf

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Dimensions of the output vectors. Matches the dense model's width so
// the persisted index layout is identical for both methods.
const Dimensions = 384

// normalisePattern strips everything except word characters, whitespace
// and the punctuation that carries meaning in financial text ($ amounts,
// percentages, form codes like 10-K).
var normalisePattern = regexp.MustCompile(`[^\w\s.$%-]`)

// shortTokenAllowList keeps meaningful financial tokens that the
// minimum-length rule would otherwise drop.
var shortTokenAllowList = map[string]struct{}{
	"q1": {}, "q2": {}, "q3": {}, "q4": {},
	"us": {}, "eu": {}, "uk": {},
	"ai": {}, "rd": {}, "$": {},
}

// Embedder is the fallback lexical embedder. It must be fitted on the
// ingestion corpus before any Embed call; using it unfitted is a
// programming error surfaced as domain.ErrNotFitted.
type Embedder struct {
	mu sync.RWMutex

	fitted bool

	// vocab maps each 1/2-gram seen during Fit to its index, used only
	// when the vocabulary is narrower than the output width.
	vocab map[string]int

	// idf holds inverse document frequencies keyed like vocab.
	idf map[string]float64

	// docCount is the corpus size at fit time.
	docCount int

	// project is true when the vocabulary exceeds the output width and
	// terms are folded into dimensions by signed hashing. When false,
	// each term owns a dimension and the tail is zero padding.
	project bool
}

// NewEmbedder creates an unfitted fallback embedder.
func NewEmbedder() *Embedder {
	return &Embedder{}
}

// Fit derives the vocabulary and document frequencies from the corpus.
// Fitting twice replaces the previous state. An empty corpus yields
// domain.ErrEmptyCorpus since no meaningful IDF can exist.
func (e *Embedder) Fit(_ context.Context, texts []string) error {
	if len(texts) == 0 {
		return domain.ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, term := range Terms(text) {
			seen[term] = struct{}{}
		}
		for term := range seen {
			df[term]++
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.docCount = len(texts)
	e.idf = make(map[string]float64, len(df))
	for term, n := range df {
		// Smoothed IDF, always positive so every known term contributes.
		e.idf[term] = math.Log(float64(1+e.docCount)/float64(1+n)) + 1
	}

	e.project = len(df) >= Dimensions
	if e.project {
		e.vocab = nil
	} else {
		// Narrow vocabulary: give each term its own dimension and pad
		// the rest with zeros so the width invariant holds.
		e.vocab = make(map[string]int, len(df))
		i := 0
		for term := range df {
			e.vocab[term] = i
			i++
		}
	}
	e.fitted = true
	return nil
}

// Embed produces an L2-normalised vector for the text. Empty or
// degenerate text maps to the zero vector, never an error.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.fitted {
		return nil, domain.ErrNotFitted
	}
	return e.embedLocked(text), nil
}

// EmbedBatch embeds each text with the shared fitted state. Output order
// matches input order and each element equals what Embed returns for the
// same text.
func (e *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.fitted {
		return nil, domain.ErrNotFitted
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embedLocked(text)
	}
	return out, nil
}

func (e *Embedder) embedLocked(text string) []float32 {
	vec := make([]float64, Dimensions)

	terms := Terms(text)
	if len(terms) == 0 {
		return make([]float32, Dimensions)
	}

	// Sublinear term frequency, weighted by corpus IDF. Terms unseen at
	// fit time carry no signal and are dropped.
	tf := make(map[string]int, len(terms))
	for _, term := range terms {
		tf[term]++
	}
	for term, count := range tf {
		idf, ok := e.idf[term]
		if !ok {
			continue
		}
		weight := (1 + math.Log(float64(count))) * idf
		if e.project {
			dim, sign := hashTerm(term)
			vec[dim] += sign * weight
		} else {
			vec[e.vocab[term]] += weight
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, Dimensions)
	if norm == 0 {
		return out
	}
	scale := 1.0 / math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v * scale)
	}
	return out
}

// hashTerm folds a term into a dimension with a deterministic sign, so
// collisions partially cancel instead of always accumulating.
func hashTerm(term string) (dim int, sign float64) {
	h := fnv.New64a()
	h.Write([]byte(term))
	sum := h.Sum64()
	dim = int(sum % Dimensions)
	if sum&(1<<63) != 0 {
		return dim, -1
	}
	return dim, 1
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return Dimensions
}

// Method identifies this as the fallback backend.
func (e *Embedder) Method() domain.EmbeddingMethod {
	return domain.MethodFallback
}

// ModelName returns the name of the embedding model being used.
func (e *Embedder) ModelName() string {
	return "tfidf-hash-384"
}

// Ping always succeeds: the fallback is local and needs no connectivity.
func (e *Embedder) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}

// Terms normalises text and returns its unigrams and bigrams.
// Exported for the vector store's keyword scorer, which shares the same
// tokenisation rules.
func Terms(text string) []string {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, len(tokens)*2-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// Tokens lowercases, strips non-financial punctuation and drops short
// tokens unless allow-listed.
func Tokens(text string) []string {
	cleaned := normalisePattern.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".-")
		if f == "" {
			continue
		}
		if len(f) < 3 {
			if _, ok := shortTokenAllowList[f]; !ok {
				continue
			}
		}
		tokens = append(tokens, f)
	}
	return tokens
}
