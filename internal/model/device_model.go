package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Device struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string         `gorm:"type:varchar(120);not null"`
	UserAgent  string         `gorm:"type:varchar(255)"`
	Email      string         `gorm:"type:varchar(255)"`
	LastSeenAt *time.Time     `gorm:"index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Device) TableName() string {
	return "devices"
}
