package controller

import (
	"ai-chatrelay-be/internal/dto"
	"ai-chatrelay-be/internal/pkg/apperr"
	"ai-chatrelay-be/internal/pkg/serverutils"
	"ai-chatrelay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKeyController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type keyController struct {
	service service.ITenantService
}

func NewKeyController(service service.ITenantService) IKeyController {
	return &keyController{service: service}
}

func (c *keyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/keys")
	h.Post("/generate", c.Generate)
}

func (c *keyController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.IssueKey(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate api key", res))
}
