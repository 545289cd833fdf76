package controller

import (
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetHistory(ctx *fiber.Ctx) error
	GetWidget(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	widgetService service.IWidgetService
}

func NewChatController(chatService service.IChatService, widgetService service.IWidgetService) IChatController {
	return &chatController{
		chatService:   chatService,
		widgetService: widgetService,
	}
}

// RegisterRoutes registers the public REST surface the widget uses alongside
// the websocket. No auth middleware: sessions are reachable by id only.
func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("history/:sessionId", c.GetHistory)
	h.Get("widget/:widgetId", c.GetWidget)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), sessionID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) GetWidget(ctx *fiber.Ctx) error {
	widgetID, err := uuid.Parse(ctx.Params("widgetId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid widget id")
	}

	res, err := c.widgetService.GetWidget(ctx.Context(), widgetID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get widget", res))
}
