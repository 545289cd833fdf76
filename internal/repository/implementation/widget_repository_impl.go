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

type WidgetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewWidgetRepository(db *gorm.DB) contract.WidgetRepository {
	return &WidgetRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *WidgetRepositoryImpl) Create(ctx context.Context, widget *entity.Widget) error {
	m := r.mapper.WidgetToModel(widget)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*widget = *r.mapper.WidgetToEntity(m)
	return nil
}

func (r *WidgetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Widget, error) {
	var m model.Widget
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.WidgetToEntity(&m), nil
}
