package dto

import (
	"time"

	"github.com/google/uuid"
)

type WatchProductRequest struct {
	Title        string   `json:"title" validate:"required"`
	URL          string   `json:"url" validate:"required,url"`
	Currency     string   `json:"currency"`
	TargetPrice  *float64 `json:"target_price" validate:"omitempty,gt=0"`
	ThresholdPct *float64 `json:"threshold_pct" validate:"omitempty,gt=0,lt=1"`
	// InitialPrice seeds history so the first real observation already
	// has something to compare against.
	InitialPrice *float64 `json:"initial_price" validate:"omitempty,gt=0"`
}

type WatchProductResponse struct {
	Id uuid.UUID `json:"id"`
}

type WatchedProductItem struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Currency     string     `json:"currency"`
	TargetPrice  *float64   `json:"target_price,omitempty"`
	ThresholdPct float64    `json:"threshold_pct"`
	LatestPrice  *float64   `json:"latest_price,omitempty"`
	LatestAt     *time.Time `json:"latest_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RecordPriceRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency"`
}

type RecordPriceResponse struct {
	Id uuid.UUID `json:"id"`
	// DropDetected is set when this observation crossed the product's
	// alert threshold or target and raised an alert.
	DropDetected bool   `json:"drop_detected"`
	AlertMessage string `json:"alert_message,omitempty"`
}

type PricePointItem struct {
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	ObservedAt time.Time `json:"observed_at"`
}

type PriceTrendInfo struct {
	Direction string  `json:"direction"` // "rising" | "falling" | "stable"
	ChangePct float64 `json:"change_pct"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Average   float64 `json:"average"`
}

type PriceHistoryResponse struct {
	ProductId uuid.UUID        `json:"product_id"`
	Points    []PricePointItem `json:"points"`
	Trend     *PriceTrendInfo  `json:"trend,omitempty"`
}

type CheckPricesResponse struct {
	AlertsFired int `json:"alerts_fired"`
}
