package mapper

import (
	"time"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/model"

	"gorm.io/gorm"
)

type DeviceMapper struct{}

func NewDeviceMapper() *DeviceMapper {
	return &DeviceMapper{}
}

func (m *DeviceMapper) ToEntity(d *model.Device) *entity.Device {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Device{
		Id:         d.Id,
		Name:       d.Name,
		UserAgent:  d.UserAgent,
		Email:      d.Email,
		LastSeenAt: d.LastSeenAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  d.DeletedAt.Valid,
	}
}

func (m *DeviceMapper) ToModel(d *entity.Device) *model.Device {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Device{
		Id:         d.Id,
		Name:       d.Name,
		UserAgent:  d.UserAgent,
		Email:      d.Email,
		LastSeenAt: d.LastSeenAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *DeviceMapper) ToEntities(devices []*model.Device) []*entity.Device {
	entities := make([]*entity.Device, len(devices))
	for i, d := range devices {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
