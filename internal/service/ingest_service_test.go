package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"support-rag-be/internal/entity"
	"support-rag-be/internal/repository/contract"
	"support-rag-be/internal/repository/specification"
	"support-rag-be/internal/repository/unitofwork"
	"support-rag-be/pkg/embedding"
	"support-rag-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChunkRepository struct {
	chunks []*entity.DocumentChunk

	createdBulk      [][]*entity.DocumentChunk
	deletedFilenames []string
	deletedAll       bool
	findAllSpecs     []specification.Specification
	countSpecs       [][]specification.Specification
}

func (r *recordingChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.createdBulk = append(r.createdBulk, chunks)
	return nil
}

func (r *recordingChunkRepository) DeleteByFilename(ctx context.Context, filename string) error {
	r.deletedFilenames = append(r.deletedFilenames, filename)
	return nil
}

func (r *recordingChunkRepository) DeleteAll(ctx context.Context) error {
	r.deletedAll = true
	return nil
}

func (r *recordingChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	r.findAllSpecs = specs
	return r.chunks, nil
}

func (r *recordingChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.countSpecs = append(r.countSpecs, specs)
	if len(specs) == 1 {
		if bySource, ok := specs[0].(specification.BySource); ok {
			switch bySource.Source {
			case "upload":
				return 2, nil
			case "local":
				return 3, nil
			}
		}
	}
	return 5, nil
}

func (r *recordingChunkRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	return nil, nil
}

type stubUnitOfWork struct {
	repo       contract.DocumentChunkRepository
	began      bool
	committed  bool
	rolledBack bool
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error {
	u.began = true
	return nil
}

func (u *stubUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *stubUnitOfWork) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *stubUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.repo
}

type stubFactory struct {
	uow *stubUnitOfWork
}

func (f stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fixedEmbedder struct {
	calls int
}

func (e *fixedEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	e.calls++
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type passthroughRetriever struct{}

func (passthroughRetriever) Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Passage, error) {
	return nil, nil
}

func TestIngestService_StatusCountsBySource(t *testing.T) {
	repo := &recordingChunkRepository{}
	factory := stubFactory{uow: &stubUnitOfWork{repo: repo}}
	handle := retrieval.NewHandle()

	svc := NewIngestService(factory, nil, nil, nil, handle, nil, nopLogger{}, t.TempDir(), 500, 50)

	res, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Ready)
	assert.Equal(t, int64(5), res.ChunkCount)
	assert.Equal(t, int64(2), res.UploadedChunks)
	assert.Equal(t, int64(3), res.LocalChunks)

	// One total count plus one per source
	require.Len(t, repo.countSpecs, 3)
	assert.Empty(t, repo.countSpecs[0])
}

func TestIngestService_DocumentChunksUsesSpecifications(t *testing.T) {
	repo := &recordingChunkRepository{
		chunks: []*entity.DocumentChunk{
			{Filename: "guide.pdf", Source: "upload", ChunkIndex: 0, Content: "first piece"},
			{Filename: "guide.pdf", Source: "upload", ChunkIndex: 1, Content: "second piece"},
		},
	}
	factory := stubFactory{uow: &stubUnitOfWork{repo: repo}}

	svc := NewIngestService(factory, nil, nil, nil, retrieval.NewHandle(), nil, nopLogger{}, t.TempDir(), 500, 50)

	infos, err := svc.DocumentChunks(context.Background(), "guide.pdf", 10, 5)
	require.NoError(t, err)

	require.Len(t, repo.findAllSpecs, 3)
	byFilename, ok := repo.findAllSpecs[0].(specification.ByFilename)
	require.True(t, ok)
	assert.Equal(t, "guide.pdf", byFilename.Filename)

	orderBy, ok := repo.findAllSpecs[1].(specification.OrderBy)
	require.True(t, ok)
	assert.Equal(t, "chunk_index", orderBy.Field)
	assert.False(t, orderBy.Desc)

	pagination, ok := repo.findAllSpecs[2].(specification.Pagination)
	require.True(t, ok)
	assert.Equal(t, 10, pagination.Limit)
	assert.Equal(t, 5, pagination.Offset)

	require.Len(t, infos, 2)
	assert.Equal(t, "first piece", infos[0].Content)
	assert.Equal(t, len("first piece"), infos[0].CharCount)
	assert.Equal(t, "upload", infos[1].Source)
}

func TestIngestService_IndexDocumentReplacesStaleChunks(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte("Shipping takes three to five business days."), 0o644))

	repo := &recordingChunkRepository{}
	uow := &stubUnitOfWork{repo: repo}
	handle := retrieval.NewHandle()
	embedder := &fixedEmbedder{}

	svc := NewIngestService(stubFactory{uow: uow}, embedder, nil, nil, handle, passthroughRetriever{}, nopLogger{}, dataDir, 500, 50)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	count, err := svc.IndexDocument(ctx, path, "upload")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, embedder.calls)

	// Stale chunks of the same document go first, inside the transaction
	require.Equal(t, []string{"faq.txt"}, repo.deletedFilenames)
	require.Len(t, repo.createdBulk, 1)
	assert.True(t, uow.committed)

	// A successful single-document ingest leaves the index queryable
	assert.True(t, handle.Ready())
}
