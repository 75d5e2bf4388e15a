package service

import (
	"context"
	"errors"
	"time"

	"support-rag-be/internal/constant"
	"support-rag-be/internal/dto"
	"support-rag-be/internal/pkg/logger"
	"support-rag-be/internal/repository/memory"
	"support-rag-be/pkg/retrieval"
	"support-rag-be/pkg/workflow"
)

type IAssistantService interface {
	// HandleQuery runs one query through the workflow. It always returns
	// a usable response so the caller can keep the connection open.
	HandleQuery(ctx context.Context, conversationId string, query string) *dto.SendQueryResponse
}

type assistantService struct {
	workflow         *workflow.Workflow
	conversationRepo *memory.ConversationRepository
	logger           logger.ILogger
}

func NewAssistantService(
	wf *workflow.Workflow,
	conversationRepo *memory.ConversationRepository,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		workflow:         wf,
		conversationRepo: conversationRepo,
		logger:           log,
	}
}

func (s *assistantService) HandleQuery(ctx context.Context, conversationId string, query string) *dto.SendQueryResponse {
	conv := s.conversationRepo.GetOrCreate(conversationId)
	conv.LastQuery = query
	conv.MessageCount++
	conv.LastActiveAt = time.Now()

	result, err := s.workflow.Run(ctx, query)
	if err != nil {
		response := constant.GenericFailureMessage
		if errors.Is(err, retrieval.ErrNoIndex) {
			response = constant.NoKnowledgeBaseMessage
			s.logger.Warn("AssistantService", "Query received before any index exists", map[string]interface{}{
				"conversation_id": conversationId,
			})
		} else {
			s.logger.Error("AssistantService", "Workflow failed", map[string]interface{}{
				"conversation_id": conversationId,
				"error":           err.Error(),
			})
		}
		s.conversationRepo.Save(conv)
		return &dto.SendQueryResponse{
			ConversationId: conversationId,
			Response:       response,
		}
	}

	conv.LastSentiment = string(result.Sentiment)
	conv.Escalated = result.Escalated
	s.conversationRepo.Save(conv)

	s.logger.Info("AssistantService", "Query handled", map[string]interface{}{
		"conversation_id": conversationId,
		"sentiment":       string(result.Sentiment),
		"escalated":       result.Escalated,
	})

	return &dto.SendQueryResponse{
		ConversationId: conversationId,
		Response:       result.Response,
		Sentiment:      string(result.Sentiment),
		Escalated:      result.Escalated,
	}
}
