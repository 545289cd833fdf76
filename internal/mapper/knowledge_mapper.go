package mapper

import (
	"encoding/json"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) DocumentToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &metadata)
	}

	return &entity.KnowledgeDocument{
		Id:              d.Id,
		KnowledgeBaseId: d.KnowledgeBaseId,
		Title:           d.Title,
		Content:         d.Content,
		Metadata:        metadata,
		CreatedAt:       d.CreatedAt,
	}
}

func (m *KnowledgeMapper) DocumentToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}

	return &model.KnowledgeDocument{
		Id:              d.Id,
		KnowledgeBaseId: d.KnowledgeBaseId,
		Title:           d.Title,
		Content:         d.Content,
		Metadata:        marshalJSON(d.Metadata),
		CreatedAt:       d.CreatedAt,
	}
}

func (m *KnowledgeMapper) DocumentsToEntities(models []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(models))
	for i, d := range models {
		entities[i] = m.DocumentToEntity(d)
	}
	return entities
}
