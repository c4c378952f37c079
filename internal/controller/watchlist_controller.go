package controller

import (
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWatchlistController interface {
	RegisterRoutes(r fiber.Router)
	Watch(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Unwatch(ctx *fiber.Ctx) error
	RecordPrice(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	CheckPrices(ctx *fiber.Ctx) error
}

type watchlistController struct {
	watchlistService service.IWatchlistService
}

func NewWatchlistController(watchlistService service.IWatchlistService) IWatchlistController {
	return &watchlistController{
		watchlistService: watchlistService,
	}
}

func (c *watchlistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/watchlist/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED: Wajib pair
	h.Post("", c.Watch)
	h.Get("", c.List)
	h.Post("check-prices", c.CheckPrices) // Specific route before :id
	h.Delete(":id", c.Unwatch)
	h.Post(":id/price", c.RecordPrice)
	h.Get(":id/history", c.History)
}

func (c *watchlistController) Watch(ctx *fiber.Ctx) error {
	// 1. Ambil Device ID dari Token
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	var req dto.WatchProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Kirim deviceId ke Service
	res, err := c.watchlistService.Watch(ctx.Context(), deviceId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success watch product", res))
}

func (c *watchlistController) List(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	res, err := c.watchlistService.List(ctx.Context(), deviceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list watchlist", res))
}

func (c *watchlistController) Unwatch(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.watchlistService.Unwatch(ctx.Context(), deviceId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success unwatch product", nil))
}

func (c *watchlistController) RecordPrice(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.RecordPriceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.watchlistService.RecordPrice(ctx.Context(), deviceId, id, &req)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Product not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record price", res))
}

func (c *watchlistController) History(ctx *fiber.Ctx) error {
	deviceIdStr := ctx.Locals("device_id").(string)
	deviceId, _ := uuid.Parse(deviceIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	days := ctx.QueryInt("days", 0)

	res, err := c.watchlistService.History(ctx.Context(), deviceId, id, days)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Product not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get price history", res))
}

// CheckPrices runs the same sweep the background watcher runs, on
// demand. Fires for every device, not just the caller; the endpoint
// exists for the extension's "re-check now" button.
func (c *watchlistController) CheckPrices(ctx *fiber.Ctx) error {
	fired, err := c.watchlistService.CheckPrices(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check prices", &dto.CheckPricesResponse{AlertsFired: fired}))
}
