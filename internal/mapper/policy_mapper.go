package mapper

import (
	"encoding/json"
	"time"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) ContextRuleToEntity(r *model.ContextRule) *entity.ContextRule {
	if r == nil {
		return nil
	}

	var keywords []string
	if len(r.Keywords) > 0 {
		_ = json.Unmarshal(r.Keywords, &keywords)
	}

	var excludedTopics []string
	if len(r.ExcludedTopics) > 0 {
		_ = json.Unmarshal(r.ExcludedTopics, &excludedTopics)
	}

	var filters []entity.ResponseFilter
	if len(r.ResponseFilters) > 0 {
		_ = json.Unmarshal(r.ResponseFilters, &filters)
	}

	var kbIds []uuid.UUID
	if len(r.KnowledgeBaseIds) > 0 {
		_ = json.Unmarshal(r.KnowledgeBaseIds, &kbIds)
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.ContextRule{
		Id:               r.Id,
		Name:             r.Name,
		IsActive:         r.IsActive,
		Keywords:         keywords,
		ExcludedTopics:   excludedTopics,
		PromptTemplate:   r.PromptTemplate,
		ResponseFilters:  filters,
		KnowledgeBaseIds: kbIds,
		PreferredModel:   r.PreferredModel,
		Version:          r.Version,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PolicyMapper) ContextRuleToModel(r *entity.ContextRule) *model.ContextRule {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.ContextRule{
		Id:               r.Id,
		Name:             r.Name,
		IsActive:         r.IsActive,
		Keywords:         marshalJSON(r.Keywords),
		ExcludedTopics:   marshalJSON(r.ExcludedTopics),
		PromptTemplate:   r.PromptTemplate,
		ResponseFilters:  marshalJSON(r.ResponseFilters),
		KnowledgeBaseIds: marshalJSON(r.KnowledgeBaseIds),
		PreferredModel:   r.PreferredModel,
		Version:          r.Version,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PolicyMapper) WidgetToEntity(w *model.Widget) *entity.Widget {
	if w == nil {
		return nil
	}

	var appearance map[string]interface{}
	if len(w.Appearance) > 0 {
		_ = json.Unmarshal(w.Appearance, &appearance)
	}

	var updatedAt *time.Time
	if !w.UpdatedAt.IsZero() {
		t := w.UpdatedAt
		updatedAt = &t
	}

	return &entity.Widget{
		Id:             w.Id,
		Name:           w.Name,
		ContextRuleId:  w.ContextRuleId,
		WelcomeMessage: w.WelcomeMessage,
		Appearance:     appearance,
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PolicyMapper) WidgetToModel(w *entity.Widget) *model.Widget {
	if w == nil {
		return nil
	}

	var updatedAt time.Time
	if w.UpdatedAt != nil {
		updatedAt = *w.UpdatedAt
	}

	return &model.Widget{
		Id:             w.Id,
		Name:           w.Name,
		ContextRuleId:  w.ContextRuleId,
		WelcomeMessage: w.WelcomeMessage,
		Appearance:     marshalJSON(w.Appearance),
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

// marshalJSON is shared by mappers; a nil value maps to a null column.
func marshalJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
