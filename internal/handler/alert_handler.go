package handler

import (
	"os"
	"time"

	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/logger"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/service"
	internalWS "tabsensei-be/internal/websocket"
	"tabsensei-be/pkg/events"
	pktNats "tabsensei-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AlertHandler struct {
	service   *service.AlertService
	publisher *pktNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewAlertHandler(service *service.AlertService, pub *pktNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *AlertHandler {
	return &AlertHandler{
		service:   service,
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *AlertHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers can't set headers on WebSocket handshakes, so the token
	// rides the query string; tooling may still use the header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	// Same secret as the REST middleware.
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("AlertHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	deviceIDStr, ok := claims["device_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing device_id"})
	}

	deviceID, err := uuid.Parse(deviceIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid device ID format in token"})
	}

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("AlertHandler", "Starting WebSocket session", map[string]interface{}{"device_id": deviceID})
			internalWS.ServeWs(h.hub, c, deviceID)
			h.logger.Info("AlertHandler", "WebSocket session ended", map[string]interface{}{"device_id": deviceID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func deviceIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	deviceIDStr, ok := c.Locals("device_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	deviceID, err := uuid.Parse(deviceIDStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid device ID")
	}
	return deviceID, nil
}

// GetAlerts returns the device's alert inbox, newest first.
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	deviceID, err := deviceIDFromLocals(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	alerts, total, err := h.service.GetAlerts(c.UserContext(), deviceID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	items := make([]dto.AlertItem, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, dto.AlertItem{
			Id:        a.ID,
			Kind:      a.Kind,
			Title:     a.Title,
			Message:   a.Message,
			ProductId: a.ProductID,
			OldPrice:  a.OldPrice,
			NewPrice:  a.NewPrice,
			DueAt:     a.DueAt,
			IsRead:    a.IsRead,
			CreatedAt: a.CreatedAt,
		})
	}

	return c.JSON(dto.ListAlertsResponse{
		Data:  items,
		Total: total,
		Page:  offset/limit + 1,
		Limit: limit,
	})
}

// GetUnreadCount returns the number of unread alerts.
func (h *AlertHandler) GetUnreadCount(c *fiber.Ctx) error {
	deviceID, err := deviceIDFromLocals(c)
	if err != nil {
		return err
	}

	count, err := h.service.GetUnreadCount(c.UserContext(), deviceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(dto.UnreadCountResponse{Count: count})
}

// MarkAsRead marks a specific alert as read.
func (h *AlertHandler) MarkAsRead(c *fiber.Ctx) error {
	idStr := c.Params("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := h.service.MarkAsRead(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// MarkAllAsRead marks all of the device's alerts as read.
func (h *AlertHandler) MarkAllAsRead(c *fiber.Ctx) error {
	deviceID, err := deviceIDFromLocals(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), deviceID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// DebugTriggerEvent simulates an event to test the flow.
func (h *AlertHandler) DebugTriggerEvent(c *fiber.Ctx) error {
	type Request struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}

	// If no device_id in payload, use the caller's device
	if _, ok := req.Payload["device_id"]; !ok {
		if did := c.Locals("device_id"); did != nil {
			req.Payload["device_id"] = did
		}
	}

	evt := events.BaseEvent{
		Type:       req.Type,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}

	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Event Published", "event": evt})
}

// Broadcast pushes a system-wide notice to every connected device.
func (h *AlertHandler) Broadcast(c *fiber.Ctx) error {
	type Request struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and Message are required"})
	}

	evt := events.BaseEvent{
		Type: events.TypeSystemBroadcast,
		Data: map[string]interface{}{
			"title":   req.Title,
			"message": req.Message,
		},
		OccurredAt: time.Now(),
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"status": "Broadcast Queued"})
}

// RegisterRoutes registers the alert routes.
func (h *AlertHandler) RegisterRoutes(router fiber.Router) {
	alerts := router.Group("/alerts")
	alerts.Use(serverutils.JwtMiddleware)
	alerts.Get("/", h.GetAlerts)
	alerts.Get("/unread-count", h.GetUnreadCount) // Specific route before :id
	alerts.Patch("/:id/read", h.MarkAsRead)
	alerts.Patch("/read-all", h.MarkAllAsRead)
	alerts.Post("/broadcast", h.Broadcast)

	debug := router.Group("/debug")
	debug.Post("/trigger-alert", h.DebugTriggerEvent)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
