package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AlertType is the registry mapping event codes to alert templates.
type AlertType struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string         `gorm:"type:varchar(50);unique;not null" json:"code"`
	DisplayName string         `gorm:"type:varchar(100);not null" json:"display_name"`
	Template    string         `gorm:"type:text;not null" json:"template"`
	Priority    string         `gorm:"type:varchar(10);default:'MEDIUM'" json:"priority"`
	Channels    datatypes.JSON `gorm:"type:jsonb;default:'[\"web\"]'" json:"channels"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AlertType) TableName() string {
	return "alert_types"
}

// Alert stores the delivered alert history per device.
type Alert struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeviceID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_alerts_device_created,priority:1;index:idx_alerts_device_unread,priority:1" json:"device_id"`
	ProductID *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Kind      string         `gorm:"type:varchar(30);not null;index" json:"kind"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	OldPrice  float64        `gorm:"type:numeric(12,2)" json:"old_price"`
	NewPrice  float64        `gorm:"type:numeric(12,2)" json:"new_price"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	DueAt     *time.Time     `gorm:"index" json:"due_at,omitempty"`
	IsRead    bool           `gorm:"default:false;index:idx_alerts_device_unread,priority:2" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_alerts_device_created,priority:2" json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}
