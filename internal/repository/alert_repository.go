package repository

import (
	"context"
	"time"

	"tabsensei-be/internal/model"

	"github.com/google/uuid"
)

type AlertRepository interface {
	// Alert Operations
	CreateAlert(ctx context.Context, alert *model.Alert) error
	GetAlertsByDeviceID(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]model.Alert, int64, error)
	GetUnreadCount(ctx context.Context, deviceID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, alertID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, deviceID uuid.UUID) error

	// GetDueReminders returns undelivered reminders whose due time has
	// passed. The watcher marks them delivered by setting due_at NULL.
	GetDueReminders(ctx context.Context, now time.Time) ([]model.Alert, error)
	ClearDue(ctx context.Context, alertID uuid.UUID) error

	// LastAlertForProduct returns the newest alert raised for a product,
	// nil when none exists. The watcher uses it to avoid re-alerting on
	// an observation it already flagged.
	LastAlertForProduct(ctx context.Context, productID uuid.UUID) (*model.Alert, error)

	// Registry Operations
	GetAlertTypeByCode(ctx context.Context, code string) (*model.AlertType, error)

	// Preference Operations
	GetPreference(ctx context.Context, deviceID uuid.UUID) (*model.DevicePreference, error)
	SavePreference(ctx context.Context, pref *model.DevicePreference) error

	// DeleteAllForDevice removes every alert and the preference row of
	// an unpaired device.
	DeleteAllForDevice(ctx context.Context, deviceID uuid.UUID) error
}
