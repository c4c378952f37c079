// FILE: internal/entity/watchlist_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// WatchedProduct is a product page the device asked us to keep an eye on.
// URL is stored canonical (query string stripped) so repeat visits match.
type WatchedProduct struct {
	Id           uuid.UUID
	DeviceId     uuid.UUID
	Title        string
	URL          string
	Currency     string
	TargetPrice  *float64 // alert when price reaches this, nil = threshold only
	ThresholdPct float64  // relative drop that raises an alert, e.g. 0.10
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

// PricePoint is one observed price for a watched product.
type PricePoint struct {
	Id         uuid.UUID
	ProductId  uuid.UUID
	Amount     float64
	Currency   string
	ObservedAt time.Time
}
