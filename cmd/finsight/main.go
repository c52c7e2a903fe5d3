// finsight answers natural-language financial questions over a locally
// ingested corpus of SEC filings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/config/file"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/edgar"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding"
	embedollama "github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/finsight-labs/finsight-cli/internal/adapters/driven/llm/ollama"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/storage/sqlite"
	vectorfile "github.com/finsight-labs/finsight-cli/internal/adapters/driven/vectorstore/file"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driving/cli"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/services"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	home := filepath.Dir(cfg.Path())

	// Embedding backend: dense model when reachable, TF-IDF otherwise.
	embedder := embedding.Select(ctx, embedollama.Config{
		BaseURL: cfg.GetString("embedding.base_url"),
		Model:   cfg.GetString("embedding.model"),
	})
	defer embedder.Close()

	indexPath := cfg.GetString("index.path")
	if indexPath == "" {
		indexPath = filepath.Join(home, "index.json")
	}
	vectorStore := vectorfile.NewStore(vectorfile.Config{
		Path:       indexPath,
		Method:     embedder.Method(),
		Dimensions: embedder.Dimensions(),
	})
	defer vectorStore.Close()

	filingStore, err := sqlite.NewStore(cfg.GetString("data.dir"))
	if err != nil {
		return fmt.Errorf("open filing store: %w", err)
	}
	defer filingStore.Close()

	// Answer synthesis is optional: keep the LLM nil when unreachable
	// so `ask` degrades instead of timing out mid-answer.
	llm := llmollama.NewLLMService(llmollama.LLMConfig{
		BaseURL: cfg.GetString("llm.base_url"),
		Model:   cfg.GetString("llm.model"),
	})
	var llmService driven.LLMService
	if err := llm.Ping(ctx); err != nil {
		logger.Debug("LLM unavailable: %v", err)
	} else {
		llmService = llm
	}

	source := edgar.NewClient(edgarOptions(cfg.GetString("edgar.user_agent"))...)
	defer source.Close()

	router := services.NewQueryRouter(services.NewEntityExtractor())
	engine := services.NewRetrievalEngine(embedder, vectorStore)

	queryService := services.NewQueryService(router, engine, vectorStore, llmService)
	queryService.SetFilingStore(filingStore)
	queryService.SetIndexPath(indexPath)

	ingestService := services.NewIngestService(embedder, vectorStore, filingStore, source)

	cli.SetServices(cli.Services{
		Query:  queryService,
		Ingest: ingestService,
		Config: cfg,
	})

	return cli.Execute(version)
}

func edgarOptions(userAgent string) []edgar.Option {
	if userAgent == "" {
		return nil
	}
	return []edgar.Option{edgar.WithUserAgent(userAgent)}
}
