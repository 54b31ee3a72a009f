package service

import (
	"context"
	"fmt"

	"faith-companion-be/internal/pkg/logger"
	"faith-companion-be/pkg/events"
	pktNats "faith-companion-be/pkg/nats"
)

type IEventAuditService interface {
	Start()
}

// eventAuditService tails the NATS event stream and writes every lifecycle
// event to the audit log. It is a durable consumer, so events that arrive
// while the service is down are replayed on restart.
type eventAuditService struct {
	subscriber *pktNats.Subscriber
	log        logger.ILogger
}

func NewEventAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{
		subscriber: subscriber,
		log:        log,
	}
}

// Start begins listening to the event bus.
func (s *eventAuditService) Start() {
	if s.subscriber == nil {
		s.log.Warn("EventAuditService", "No NATS subscriber available, audit trail disabled", nil)
		return
	}

	err := s.subscriber.Subscribe("events.>", "lifecycle-audit-worker", s.handleEvent)
	if err != nil {
		s.log.Error("EventAuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.log.Info("EventAuditService", "Audit service started, listening to events.>", nil)
}

func (s *eventAuditService) handleEvent(ctx context.Context, event events.Event) error {
	s.log.Info("EventAuditService", fmt.Sprintf("Event received: %s", event.EventType()), map[string]interface{}{
		"type":    event.EventType(),
		"payload": event.Payload(),
	})
	return nil
}
