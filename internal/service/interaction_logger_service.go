package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IInteractionLoggerService interface {
	Consume(ctx context.Context) error
}

// interactionLoggerService drains the interaction-log topic and writes audit
// rows. The whole path is best-effort: a failed write is logged and dropped,
// never surfaced to the chat flow.
type interactionLoggerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewInteractionLoggerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IInteractionLoggerService {
	return &interactionLoggerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (s *interactionLoggerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *interactionLoggerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishInteractionLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal interaction log message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	row := &entity.AIInteractionLog{
		Id:            uuid.New(),
		UserId:        payload.UserId,
		ChatSessionId: payload.ChatSessionId,
		Query:         payload.Query,
		Response:      payload.Response,
		ModelUsed:     payload.ModelUsed,
		ContextRuleId: payload.ContextRuleId,
		Metadata:      payload.Metadata,
		CreatedAt:     time.Now(),
	}

	if err := uow.InteractionLogRepository().Create(ctx, row); err != nil {
		log.Printf("[ERROR] Failed to write interaction log for session %s: %v", payload.ChatSessionId, err)
		msg.Ack() // Audit rows are best-effort, don't retry forever
		return
	}

	msg.Ack()
}
