package entity

import (
	"time"

	"github.com/google/uuid"
)

// Device is one paired browser-extension install. Everything the
// assistant stores is scoped to a device.
type Device struct {
	Id         uuid.UUID
	Name       string // e.g. "Chrome on work laptop"
	UserAgent  string
	Email      string // optional, for email alerts
	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
