package implementation

import (
	"context"
	"errors"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ContextRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewContextRuleRepository(db *gorm.DB) contract.ContextRuleRepository {
	return &ContextRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *ContextRuleRepositoryImpl) Create(ctx context.Context, rule *entity.ContextRule) error {
	if rule.Version == 0 {
		rule.Version = 1
	}
	m := r.mapper.ContextRuleToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ContextRuleToEntity(m)
	return nil
}

func (r *ContextRuleRepositoryImpl) Update(ctx context.Context, rule *entity.ContextRule) error {
	rule.Version++
	m := r.mapper.ContextRuleToModel(rule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ContextRuleToEntity(m)
	return nil
}

func (r *ContextRuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContextRule, error) {
	var m model.ContextRule
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ContextRuleToEntity(&m), nil
}

func (r *ContextRuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContextRule, error) {
	var models []*model.ContextRule
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ContextRule, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ContextRuleToEntity(m)
	}
	return entities, nil
}
