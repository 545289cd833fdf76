package service

import (
	"context"
	"fmt"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IWidgetService interface {
	GetWidget(ctx context.Context, widgetID uuid.UUID) (*dto.WidgetResponse, error)
}

// widgetService serves the public widget configuration the embed script loads.
type widgetService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWidgetService(uowFactory unitofwork.RepositoryFactory) IWidgetService {
	return &widgetService{uowFactory: uowFactory}
}

func (ws *widgetService) GetWidget(ctx context.Context, widgetID uuid.UUID) (*dto.WidgetResponse, error) {
	uow := ws.uowFactory.NewUnitOfWork(ctx)

	widget, err := uow.WidgetRepository().FindOne(ctx,
		specification.ByID{ID: widgetID},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if widget == nil {
		return nil, fmt.Errorf("widget not found")
	}

	return &dto.WidgetResponse{
		Id:             widget.Id,
		Name:           widget.Name,
		WelcomeMessage: widget.WelcomeMessage,
		Appearance:     widget.Appearance,
		IsActive:       widget.IsActive,
	}, nil
}
