package service

import (
	"context"
	"encoding/json"
	"time"

	"faith-companion-be/internal/dto"
	"faith-companion-be/internal/pkg/logger"
	"faith-companion-be/internal/pkg/mailer"
	"faith-companion-be/pkg/events"
	pktNats "faith-companion-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// lifecycleConsumerService handles the asynchronous tail of a session end:
// the optional summary email and the fire-and-forget bus event. The
// synchronous persistence work happened before the message was published, so
// everything here is best effort.
type lifecycleConsumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	sendEmail      bool
	log            logger.ILogger
}

func NewLifecycleConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	sendEmail bool,
	log logger.ILogger,
) IConsumerService {
	return &lifecycleConsumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		sendEmail:      sendEmail,
		log:            log,
	}
}

func (cs *lifecycleConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *lifecycleConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionEndedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("lifecycle", "Failed to unmarshal session ended message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("lifecycle", "Processing session ended", map[string]interface{}{
		"session_id": payload.SessionId,
		"kind":       payload.Kind,
	})

	if cs.sendEmail && payload.Email != "" && cs.emailService != nil {
		if err := cs.emailService.SendSessionSummaryReady(payload.Email, payload.Title, payload.Summary); err != nil {
			cs.log.Warn("lifecycle", "Summary email failed", map[string]interface{}{
				"error":      err.Error(),
				"session_id": payload.SessionId,
			})
		}
	}

	if cs.eventPublisher != nil {
		now := time.Now()
		outbound := []events.Event{
			events.SessionEndedEvent{
				UserID:         payload.UserId.String(),
				ConversationID: payload.SessionId,
				Kind:           payload.Kind,
				OccurredAt:     now,
			},
			events.SessionSavedEvent{
				UserID:         payload.UserId.String(),
				ConversationID: payload.SessionId,
				Title:          payload.Title,
				MessageCount:   payload.MessageCount,
				OccurredAt:     now,
			},
		}
		if payload.ItemsCreated > 0 {
			outbound = append(outbound, events.MemoryConsolidatedEvent{
				UserID:         payload.UserId.String(),
				ConversationID: payload.SessionId,
				ItemsCreated:   payload.ItemsCreated,
				OccurredAt:     now,
			})
		}
		for _, evt := range outbound {
			if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
				cs.log.Warn("lifecycle", "Failed to publish event", map[string]interface{}{
					"error":      err.Error(),
					"type":       evt.EventType(),
					"session_id": payload.SessionId,
				})
			}
		}
	}

	msg.Ack()
}
