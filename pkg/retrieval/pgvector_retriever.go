package retrieval

import (
	"context"
	"fmt"

	"support-rag-be/internal/repository/unitofwork"
	"support-rag-be/pkg/embedding"
)

// PgVectorRetriever embeds the query and runs a cosine similarity search
// against the document_chunks table.
type PgVectorRetriever struct {
	repositoryFactory unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	threshold         float64
}

func NewPgVectorRetriever(
	repositoryFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	threshold float64,
) *PgVectorRetriever {
	return &PgVectorRetriever{
		repositoryFactory: repositoryFactory,
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
	}
}

func (r *PgVectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	embeddingRes, err := r.embeddingProvider.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	uow := r.repositoryFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		topK,
		r.threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	passages := make([]Passage, len(scored))
	for i, s := range scored {
		passages[i] = Passage{
			Content:    s.Chunk.Content,
			Source:     s.Chunk.Filename,
			ChunkIndex: s.Chunk.ChunkIndex,
			Score:      s.Similarity,
		}
	}
	return passages, nil
}
