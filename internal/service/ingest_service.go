package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"support-rag-be/internal/dto"
	"support-rag-be/internal/entity"
	"support-rag-be/internal/pkg/logger"
	"support-rag-be/internal/repository/specification"
	"support-rag-be/internal/repository/unitofwork"
	"support-rag-be/pkg/embedding"
	"support-rag-be/pkg/events"
	"support-rag-be/pkg/ingestion"
	pktNats "support-rag-be/pkg/nats"
	"support-rag-be/pkg/retrieval"
	"support-rag-be/pkg/utils"

	"github.com/google/uuid"
)

type IIngestService interface {
	// SaveUpload stores an uploaded file and queues it for async indexing.
	SaveUpload(ctx context.Context, filename string, content []byte) (*dto.UploadDocumentResponse, error)

	// RebuildIndex re-ingests every document in the data directory and
	// atomically swaps the retriever handle to the fresh index.
	RebuildIndex(ctx context.Context) (*dto.ReindexResponse, error)

	// IndexDocument ingests a single file into the existing index.
	IndexDocument(ctx context.Context, path string, source string) (int, error)

	// Status reports whether the index is queryable and how large it is.
	Status(ctx context.Context) (*dto.IndexStatusResponse, error)

	// DocumentChunks lists the indexed chunks of one document in chunk
	// order, paginated.
	DocumentChunks(ctx context.Context, filename string, limit int, offset int) ([]*dto.DocumentChunkInfo, error)

	// RefreshHandle points the handle at the stored index, or marks it
	// absent when no chunks exist. Called once at startup.
	RefreshHandle(ctx context.Context) error
}

type ingestService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	handle            *retrieval.Handle
	retriever         retrieval.Retriever
	logger            logger.ILogger

	dataDir      string
	chunkSize    int
	chunkOverlap int
}

func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	handle *retrieval.Handle,
	retriever retrieval.Retriever,
	log logger.ILogger,
	dataDir string,
	chunkSize int,
	chunkOverlap int,
) IIngestService {
	return &ingestService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		handle:            handle,
		retriever:         retriever,
		logger:            log,
		dataDir:           dataDir,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (s *ingestService) SaveUpload(ctx context.Context, filename string, content []byte) (*dto.UploadDocumentResponse, error) {
	base := filepath.Base(filename)
	if !ingestion.IsSupported(base) {
		return nil, fmt.Errorf("unsupported file type: %s", base)
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	path := filepath.Join(s.dataDir, base)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	msgPayload := dto.PublishIngestDocumentMessage{
		Filename: base,
		Path:     path,
		Source:   "upload",
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, fmt.Errorf("failed to queue document: %w", err)
	}

	s.logger.Info("IngestService", "Upload queued for indexing", map[string]interface{}{
		"filename": base,
		"size":     len(content),
	})

	return &dto.UploadDocumentResponse{Filename: base, Queued: true}, nil
}

func (s *ingestService) RebuildIndex(ctx context.Context) (*dto.ReindexResponse, error) {
	started := time.Now()

	paths, err := ingestion.LoadLocalFiles(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var allChunks []*entity.DocumentChunk
	for _, path := range paths {
		chunks, err := s.buildChunks(path, "local")
		if err != nil {
			s.logger.Warn("IngestService", "Skipping unreadable document", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		allChunks = append(allChunks, chunks...)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear old index: %w", err)
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, allChunks); err != nil {
		return nil, fmt.Errorf("failed to store new index: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Readers see the old index until this swap, then the new one.
	if len(allChunks) > 0 {
		s.handle.Swap(s.retriever)
	} else {
		s.handle.Swap(nil)
	}

	if s.eventPublisher != nil {
		evt := events.NewIndexRebuilt(len(paths), len(allChunks))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("IngestService", "Failed to publish rebuild event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("IngestService", "Index rebuilt", map[string]interface{}{
		"documents": len(paths),
		"chunks":    len(allChunks),
		"elapsed":   time.Since(started).String(),
	})

	return &dto.ReindexResponse{
		DocumentCount: len(paths),
		ChunkCount:    len(allChunks),
		Elapsed:       time.Since(started).String(),
	}, nil
}

func (s *ingestService) IndexDocument(ctx context.Context, path string, source string) (int, error) {
	chunks, err := s.buildChunks(path, source)
	if err != nil {
		return 0, err
	}

	filename := filepath.Base(path)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByFilename(ctx, filename); err != nil {
		return 0, fmt.Errorf("failed to delete stale chunks: %w", err)
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.handle.Swap(s.retriever)

	if s.eventPublisher != nil {
		evt := events.NewDocumentIndexed(filename, len(chunks))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("IngestService", "Failed to publish indexed event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return len(chunks), nil
}

func (s *ingestService) Status(ctx context.Context) (*dto.IndexStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentChunkRepository()

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	uploaded, err := repo.Count(ctx, specification.BySource{Source: "upload"})
	if err != nil {
		return nil, err
	}
	local, err := repo.Count(ctx, specification.BySource{Source: "local"})
	if err != nil {
		return nil, err
	}

	return &dto.IndexStatusResponse{
		Ready:          s.handle.Ready(),
		ChunkCount:     count,
		UploadedChunks: uploaded,
		LocalChunks:    local,
	}, nil
}

func (s *ingestService) DocumentChunks(ctx context.Context, filename string, limit int, offset int) ([]*dto.DocumentChunkInfo, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().FindAll(ctx,
		specification.ByFilename{Filename: filepath.Base(filename)},
		specification.OrderBy{Field: "chunk_index"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	infos := make([]*dto.DocumentChunkInfo, len(chunks))
	for i, chunk := range chunks {
		infos[i] = &dto.DocumentChunkInfo{
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
			Source:     chunk.Source,
			CharCount:  len(chunk.Content),
		}
	}
	return infos, nil
}

func (s *ingestService) RefreshHandle(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.DocumentChunkRepository().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.handle.Swap(s.retriever)
	} else {
		s.handle.Swap(nil)
	}
	return nil
}

// buildChunks extracts, splits, and embeds one document.
func (s *ingestService) buildChunks(path string, source string) ([]*entity.DocumentChunk, error) {
	text, err := ingestion.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", path, err)
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in %s", path)
	}

	filename := filepath.Base(path)
	pieces := utils.SplitText(text, s.chunkSize, s.chunkOverlap)

	chunks := make([]*entity.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		res, err := s.embeddingProvider.Generate(piece, embedding.TaskTypeDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding failed for chunk %d of %s: %w", i, filename, err)
		}

		chunks = append(chunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			Filename:       filename,
			Source:         source,
			ChunkIndex:     i,
			Content:        piece,
			EmbeddingValue: res.Embedding.Values,
			Metadata: map[string]interface{}{
				"char_count": len(piece),
			},
			CreatedAt: time.Now(),
		})
	}
	return chunks, nil
}
