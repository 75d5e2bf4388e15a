package controller

import (
	"support-rag-be/internal/dto"
	"support-rag-be/internal/pkg/serverutils"
	"support-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendQuery(ctx *fiber.Ctx) error
}

type chatController struct {
	assistantService service.IAssistantService
}

func NewChatController(assistantService service.IAssistantService) IChatController {
	return &chatController{
		assistantService: assistantService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("query", c.SendQuery)
}

// SendQuery is the REST alternative to the websocket chat channel,
// mainly for scripted clients and smoke tests.
func (c *chatController) SendQuery(ctx *fiber.Ctx) error {
	var req dto.SendQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.assistantService.HandleQuery(ctx.Context(), req.ConversationId, req.Message)

	return ctx.JSON(serverutils.SuccessResponse("Success handle query", res))
}
