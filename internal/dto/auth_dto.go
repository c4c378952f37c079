package dto

import (
	"time"

	"github.com/google/uuid"
)

type PairRequest struct {
	PairCode   string `json:"pair_code" validate:"required"`
	DeviceName string `json:"device_name" validate:"required"`
	UserAgent  string `json:"user_agent"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type PairResponse struct {
	DeviceId  uuid.UUID `json:"device_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
