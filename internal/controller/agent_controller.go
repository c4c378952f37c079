package controller

import (
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	ResetConversation(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	RuntimeConfig(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
}

func NewAgentController(agentService service.IAgentService) IAgentController {
	return &agentController{
		agentService: agentService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	// Health and config stay open so the extension can probe before
	// pairing.
	open := r.Group("/agent/v1")
	open.Get("health", c.Health)
	open.Get("config", c.RuntimeConfig)

	h := r.Group("/agent/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED: Wajib pair
	h.Post("run", c.Run)
	h.Delete("conversation", c.ResetConversation)
}

func (c *agentController) Run(ctx *fiber.Ctx) error {
	// 1. Ambil Device ID dari Token
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	var req dto.AgentRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Kirim deviceId ke Service
	res, err := c.agentService.Run(ctx.Context(), deviceId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run agent", res))
}

func (c *agentController) ResetConversation(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	if err := c.agentService.ResetConversation(ctx.Context(), deviceId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset conversation", nil))
}

func (c *agentController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get health", c.agentService.Health(ctx.Context())))
}

func (c *agentController) RuntimeConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get config", c.agentService.RuntimeConfig()))
}
