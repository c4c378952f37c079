package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/model"
	"tabsensei-be/internal/pkg/logger"
	"tabsensei-be/internal/pkg/mailer"
	"tabsensei-be/internal/repository"
	"tabsensei-be/pkg/events"
	pktNats "tabsensei-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AlertDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type AlertDelivery interface {
	Send(deviceID uuid.UUID, alert model.Alert)
	Broadcast(alert model.Alert)
}

type AlertService struct {
	repo       repository.AlertRepository
	subscriber *pktNats.Subscriber
	delivery   AlertDelivery
	mail       mailer.IEmailService
	logger     logger.ILogger
}

func NewAlertService(repo repository.AlertRepository, sub *pktNats.Subscriber, delivery AlertDelivery, mail mailer.IEmailService, log logger.ILogger) *AlertService {
	return &AlertService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		mail:       mail,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *AlertService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "alert-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AlertService", "Failed to start alert subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AlertService", "Alert service started, listening to events.>", nil)
}

func (s *AlertService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("AlertService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	// Strip "events." prefix from type if present (NATS subject includes stream name)
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	config, err := s.repo.GetAlertTypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Warn("AlertService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		s.logger.Info("AlertService", fmt.Sprintf("Alert type '%s' is inactive", typeCode), nil)
		return nil
	}

	// Broadcasts are push-only. Persisting one row per paired device
	// does not scale and the extension treats them as transient anyway.
	if typeCode == events.TypeSystemBroadcast {
		alert := s.buildAlert(uuid.Nil, config, event)
		if s.delivery != nil {
			s.delivery.Broadcast(alert)
		}
		return nil
	}

	deviceID, ok := payloadDeviceID(event)
	if !ok {
		s.logger.Warn("AlertService", fmt.Sprintf("No device_id in payload for event %s", event.EventType()), nil)
		return nil
	}

	pref, err := s.repo.GetPreference(ctx, deviceID)
	if err != nil {
		s.logger.Error("AlertService", "Error loading preference", map[string]interface{}{"error": err, "device_id": deviceID})
		return err // NATS will retry if we return error
	}

	alert := s.buildAlert(deviceID, config, event)

	if s.isMuted(pref, alert.Kind) {
		s.logger.Info("AlertService", fmt.Sprintf("Alert kind '%s' muted by device %s", alert.Kind, deviceID), nil)
		return nil
	}

	// Scheduled reminders already sit in the inbox as rows; due
	// delivery reuses that row instead of inserting a duplicate.
	persist := true
	if idStr, ok := event.Payload()["alert_id"].(string); ok {
		if id, parseErr := uuid.Parse(idStr); parseErr == nil {
			alert.ID = id
			persist = false
		}
	}

	if persist {
		if err := s.repo.CreateAlert(ctx, &alert); err != nil {
			s.logger.Error("AlertService", fmt.Sprintf("Error saving alert for device %s", deviceID), map[string]interface{}{"error": err})
			return err
		}
	}

	s.deliver(config, pref, alert, event)
	return nil
}

// deliver fans the alert out over the channels the registry row names.
func (s *AlertService) deliver(config *model.AlertType, pref *model.DevicePreference, alert model.Alert, event events.Event) {
	for _, channel := range parseChannels(config.Channels) {
		switch channel {
		case "web":
			if s.delivery != nil {
				s.delivery.Send(alert.DeviceID, alert)
			}
		case "email":
			s.deliverEmail(pref, alert, event)
		}
	}
}

func (s *AlertService) deliverEmail(pref *model.DevicePreference, alert model.Alert, event events.Event) {
	if s.mail == nil || pref == nil || !pref.EmailEnabled || pref.EmailAddress == "" {
		return
	}

	var err error
	switch alert.Kind {
	case string(entity.AlertKindPriceDrop):
		url, _ := event.Payload()["url"].(string)
		err = s.mail.SendPriceDropAlert(pref.EmailAddress, alert.Title, url, alert.Message)
	case string(entity.AlertKindReminder):
		when := ""
		if alert.DueAt != nil {
			when = alert.DueAt.Format(time.RFC1123)
		}
		err = s.mail.SendReminder(pref.EmailAddress, alert.Message, when)
	default:
		// Session and system notices stay on the web channel.
		return
	}
	if err != nil {
		s.logger.Error("AlertService", "Email delivery failed", map[string]interface{}{"error": err, "device_id": alert.DeviceID})
	}
}

func (s *AlertService) isMuted(pref *model.DevicePreference, kind string) bool {
	if pref == nil {
		return false
	}
	for _, muted := range pref.MutedKinds {
		if muted == kind {
			return true
		}
	}
	return false
}

func (s *AlertService) buildAlert(deviceID uuid.UUID, config *model.AlertType, event events.Event) model.Alert {
	// Simple Template Engine
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		valStr := fmt.Sprintf("%v", v)
		msg = strings.ReplaceAll(msg, placeholder, valStr)
	}

	var productID *uuid.UUID
	if pidStr, ok := payload["product_id"].(string); ok {
		if pid, err := uuid.Parse(pidStr); err == nil {
			productID = &pid
		}
	}

	oldPrice, _ := payload["old_price"].(float64)
	newPrice, _ := payload["new_price"].(float64)

	metaJSON, _ := json.Marshal(payload)

	return model.Alert{
		ID:        uuid.New(),
		DeviceID:  deviceID,
		ProductID: productID,
		Kind:      kindForCode(config.Code),
		Title:     config.DisplayName,
		Message:   msg,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

// kindForCode folds event codes into the inbox kinds the extension
// filters on.
func kindForCode(code string) string {
	switch code {
	case events.TypePriceDrop:
		return string(entity.AlertKindPriceDrop)
	case events.TypeReminderDue:
		return string(entity.AlertKindReminder)
	default:
		return string(entity.AlertKindSystem)
	}
}

func payloadDeviceID(event events.Event) (uuid.UUID, bool) {
	if idStr, ok := event.Payload()["device_id"].(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

func parseChannels(raw datatypes.JSON) []string {
	var channels []string
	if err := json.Unmarshal(raw, &channels); err != nil || len(channels) == 0 {
		return []string{"web"}
	}
	return channels
}

// GetAlerts fetches the alert inbox for a device.
func (s *AlertService) GetAlerts(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]model.Alert, int64, error) {
	return s.repo.GetAlertsByDeviceID(ctx, deviceID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *AlertService) GetUnreadCount(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, deviceID)
}

// MarkAsRead marks an alert as read.
func (s *AlertService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all alerts as read for a device.
func (s *AlertService) MarkAllAsRead(ctx context.Context, deviceID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, deviceID)
}
