// FILE: internal/controller/auth_controller.go
package controller

import (
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Pair(ctx *fiber.Ctx) error
	Heartbeat(ctx *fiber.Ctx) error
	Unpair(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/pair", c.Pair)

	protected := r.Group("/auth")
	protected.Use(serverutils.JwtMiddleware)
	protected.Post("/heartbeat", c.Heartbeat)
	protected.Delete("/device", c.Unpair)
}

// Pair exchanges the shared pairing code for a device token.
func (c *authController) Pair(ctx *fiber.Ctx) error {
	var req dto.PairRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	userAgent := ctx.Get("User-Agent")

	res, err := c.service.Pair(ctx.Context(), &req, userAgent)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success pair device", res))
}

func (c *authController) Heartbeat(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	if err := c.service.Heartbeat(ctx.Context(), deviceId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success heartbeat", nil))
}

// Unpair deletes the device and everything stored under it. The
// extension calls this from the options page "unpair" button.
func (c *authController) Unpair(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	if err := c.service.Unpair(ctx.Context(), deviceId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success unpair device", nil))
}
