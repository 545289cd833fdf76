package mapper

import (
	"encoding/json"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) LogToEntity(l *model.AIInteractionLog) *entity.AIInteractionLog {
	if l == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(l.Metadata) > 0 {
		_ = json.Unmarshal(l.Metadata, &metadata)
	}

	return &entity.AIInteractionLog{
		Id:            l.Id,
		UserId:        l.UserId,
		ChatSessionId: l.ChatSessionId,
		Query:         l.Query,
		Response:      l.Response,
		ModelUsed:     l.ModelUsed,
		ContextRuleId: l.ContextRuleId,
		Metadata:      metadata,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *InteractionMapper) LogToModel(l *entity.AIInteractionLog) *model.AIInteractionLog {
	if l == nil {
		return nil
	}

	return &model.AIInteractionLog{
		Id:            l.Id,
		UserId:        l.UserId,
		ChatSessionId: l.ChatSessionId,
		Query:         l.Query,
		Response:      l.Response,
		ModelUsed:     l.ModelUsed,
		ContextRuleId: l.ContextRuleId,
		Metadata:      marshalJSON(l.Metadata),
		CreatedAt:     l.CreatedAt,
	}
}
