package dto

import (
	"time"

	"github.com/google/uuid"
)

type AlertItem struct {
	Id        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ProductId *uuid.UUID `json:"product_id,omitempty"`
	OldPrice  float64    `json:"old_price,omitempty"`
	NewPrice  float64    `json:"new_price,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListAlertsResponse struct {
	Data  []AlertItem `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
