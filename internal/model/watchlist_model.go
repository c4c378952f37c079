// FILE: internal/model/watchlist_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WatchedProduct struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeviceId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_watched_products_device_url,priority:1"`
	Title        string         `gorm:"type:varchar(255);not null"`
	URL          string         `gorm:"type:varchar(2048);not null;index:idx_watched_products_device_url,priority:2"`
	Currency     string         `gorm:"type:varchar(8);default:'USD'"`
	TargetPrice  *float64       `gorm:"type:numeric(12,2)"`
	ThresholdPct float64        `gorm:"type:numeric(5,4);default:0.10"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (WatchedProduct) TableName() string {
	return "watched_products"
}

type PricePoint struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId  uuid.UUID `gorm:"type:uuid;not null;index:idx_price_points_product_observed,priority:1"`
	Amount     float64   `gorm:"type:numeric(12,2);not null"`
	Currency   string    `gorm:"type:varchar(8);default:'USD'"`
	ObservedAt time.Time `gorm:"not null;index:idx_price_points_product_observed,priority:2"`
}

func (PricePoint) TableName() string {
	return "price_points"
}
