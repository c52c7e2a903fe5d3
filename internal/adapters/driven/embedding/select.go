// Package embedding selects the active embedding backend.
//
// The primary backend is an Ollama dense model. When it is unreachable
// at startup the statistical TF-IDF fallback takes over for the whole
// session. The switch is permanent per process so every vector in the
// corpus comes from one method.
package embedding

import (
	"context"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding/ollama"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding/tfidf"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// PingTimeout bounds the startup reachability check. A dead endpoint
// should degrade to the fallback quickly, not hang the CLI.
const PingTimeout = 3 * time.Second

// Select returns the primary embedder when it is reachable, otherwise
// the fallback. The degradation is logged once, here, so callers treat
// the result as an opaque driven.Embedder.
func Select(ctx context.Context, cfg ollama.Config) driven.Embedder {
	primary := ollama.NewEmbedder(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := primary.Ping(pingCtx); err != nil {
		logger.Warn("Embedding service unavailable, using statistical fallback: %v", err)
		_ = primary.Close()
		return tfidf.NewEmbedder()
	}

	logger.Debug("Using embedding model %s", primary.ModelName())
	return primary
}
