package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DevicePreference struct {
	DeviceID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"device_id"`
	EmailEnabled     bool                        `gorm:"default:false" json:"email_enabled"`
	EmailAddress     string                      `gorm:"type:varchar(255)" json:"email_address"`
	DropThresholdPct float64                     `gorm:"type:numeric(5,4);default:0.10" json:"drop_threshold_pct"`
	MutedKinds       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"muted_kinds"`
	UpdatedAt        time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DevicePreference) TableName() string {
	return "device_preferences"
}
