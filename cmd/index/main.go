package main

import (
	"context"
	"os"

	"support-rag-be/internal/config"
	"support-rag-be/internal/pkg/logger"
	"support-rag-be/internal/repository/unitofwork"
	"support-rag-be/internal/service"
	"support-rag-be/pkg/database"
	"support-rag-be/pkg/embedding"
	"support-rag-be/pkg/retrieval"

	"github.com/fatih/color"
)

// Rebuilds the knowledge base index from the data directory, without
// starting the server. Useful for seeding and for cron-driven refreshes.
func main() {
	color.Cyan("Knowledge base indexer\n")

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sysLogger := logger.NewIsolatedLogger("logs/indexer.log")

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		color.Yellow("Embedding provider: ollama (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		color.Yellow("Embedding provider: gemini")
	}

	handle := retrieval.NewHandle()
	pgRetriever := retrieval.NewPgVectorRetriever(uowFactory, embeddingProvider, 0.0)

	ingestService := service.NewIngestService(
		uowFactory,
		embeddingProvider,
		service.NewPublisherService(nil, ""),
		nil, // no event bus for the one-shot CLI
		handle,
		pgRetriever,
		sysLogger,
		cfg.Ingest.DataDir,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	color.Yellow("Indexing documents from %s ...", cfg.Ingest.DataDir)
	res, err := ingestService.RebuildIndex(context.Background())
	if err != nil {
		color.Red("Rebuild failed: %v", err)
		os.Exit(1)
	}

	color.Green("Done: %d documents, %d chunks in %s", res.DocumentCount, res.ChunkCount, res.Elapsed)
}
