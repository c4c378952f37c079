package controller

import (
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED: Wajib pair
	h.Get("search", c.Search)
	h.Post("", c.Save)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Save(ctx *fiber.Ctx) error {
	// 1. Ambil Device ID dari Token
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	var req dto.SaveSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Kirim deviceId ke Service
	res, err := c.sessionService.Save(ctx.Context(), deviceId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	res, err := c.sessionService.List(ctx.Context(), deviceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.sessionService.Show(ctx.Context(), deviceId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.sessionService.Delete(ctx.Context(), deviceId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) Search(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	q := ctx.Query("q", "")
	if q == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Query 'q' is required"))
	}

	res, err := c.sessionService.Search(ctx.Context(), deviceId, q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search sessions", res))
}
