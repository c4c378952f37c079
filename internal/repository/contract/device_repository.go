package contract

import (
	"context"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	Update(ctx context.Context, device *entity.Device) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteUnscoped removes the row for real. Unpairing uses it so no
	// device data outlives the pairing.
	DeleteUnscoped(ctx context.Context, id uuid.UUID) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Device, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Device, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
