package unitofwork

import (
	"context"

	"tabsensei-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DeviceRepository() contract.DeviceRepository
	WatchlistRepository() contract.WatchlistRepository
	PricePointRepository() contract.PricePointRepository
	TabSessionRepository() contract.TabSessionRepository
	SessionEmbeddingRepository() contract.SessionEmbeddingRepository
}
