package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedByDevice scopes any device-owned table to one device.
type OwnedByDevice struct {
	DeviceID uuid.UUID
}

func (s OwnedByDevice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("device_id = ?", s.DeviceID)
}
