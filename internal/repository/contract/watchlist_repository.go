package contract

import (
	"context"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WatchlistRepository interface {
	Create(ctx context.Context, product *entity.WatchedProduct) error
	Update(ctx context.Context, product *entity.WatchedProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WatchedProduct, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WatchedProduct, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type PricePointRepository interface {
	Create(ctx context.Context, point *entity.PricePoint) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PricePoint, error)
	DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error
	// LatestByProduct returns the most recent observation, nil when the
	// product has no history yet.
	LatestByProduct(ctx context.Context, productId uuid.UUID) (*entity.PricePoint, error)
	DeleteByProductId(ctx context.Context, productId uuid.UUID) error
}
