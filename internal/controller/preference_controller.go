package controller

import (
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPreferenceController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type preferenceController struct {
	preferenceService service.IPreferenceService
}

func NewPreferenceController(preferenceService service.IPreferenceService) IPreferenceController {
	return &preferenceController{
		preferenceService: preferenceService,
	}
}

func (c *preferenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/preference/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED: Wajib pair
	h.Get("", c.Get)
	h.Put("", c.Update)
}

func (c *preferenceController) Get(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	res, err := c.preferenceService.Get(ctx.Context(), deviceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get preferences", res))
}

func (c *preferenceController) Update(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	var req dto.UpdatePreferenceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.preferenceService.Update(ctx.Context(), deviceId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update preferences", res))
}
