package controller

import (
	"ai-chatrelay-be/internal/dto"
	"ai-chatrelay-be/internal/pkg/apperr"
	"ai-chatrelay-be/internal/pkg/serverutils"
	"ai-chatrelay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service        service.IChatService
	authMiddleware fiber.Handler
}

func NewChatController(service service.IChatService, authMiddleware fiber.Handler) IChatController {
	return &chatController{
		service:        service,
		authMiddleware: authMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(c.authMiddleware)
	h.Post("/start", c.Start)
	h.Post("/message", c.SendMessage)
	h.Get("/sessions", c.GetSessions)
	h.Get("/:sessionId", c.GetHistory)
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	tenantIdStr := ctx.Locals("tenant_id").(string)
	tenantId, _ := uuid.Parse(tenantIdStr)

	var req dto.StartChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartSession(ctx.Context(), tenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start chat session", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	tenantIdStr := ctx.Locals("tenant_id").(string)
	tenantId, _ := uuid.Parse(tenantIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), tenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	tenantIdStr := ctx.Locals("tenant_id").(string)
	tenantId, _ := uuid.Parse(tenantIdStr)

	var query dto.ListSessionsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperr.Validation("invalid query parameters")
	}

	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.GetAllSessions(ctx.Context(), tenantId, &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	tenantIdStr := ctx.Locals("tenant_id").(string)
	tenantId, _ := uuid.Parse(tenantIdStr)

	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		// Unparseable ids get the same answer as foreign ids.
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), tenantId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
