package service

import (
	"context"
	"strings"

	"support-rag-be/internal/pkg/logger"
	"support-rag-be/pkg/events"
	pktNats "support-rag-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notice map[string]interface{})
}

// NotificationService turns index lifecycle events into client-facing
// system notices.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notifier-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects include the "events." prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	switch typeCode {
	case events.TypeIndexRebuilt:
		s.logger.Info("NotificationService", "Knowledge base rebuilt", event.Payload())
		if s.delivery != nil {
			s.delivery.Broadcast(map[string]interface{}{
				"event":   "index_rebuilt",
				"message": "The knowledge base has been updated.",
				"payload": event.Payload(),
			})
		}
	case events.TypeDocumentIndexed:
		s.logger.Info("NotificationService", "Document indexed", event.Payload())
		if s.delivery != nil {
			s.delivery.Broadcast(map[string]interface{}{
				"event":   "document_indexed",
				"message": "A new document is available in the knowledge base.",
				"payload": event.Payload(),
			})
		}
	default:
		s.logger.Debug("NotificationService", "Ignoring event", map[string]interface{}{"type": typeCode})
	}
	return nil
}
