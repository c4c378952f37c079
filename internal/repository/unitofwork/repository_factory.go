package unitofwork

import "context"

// RepositoryFactory hands out short lived units of work, one per
// request or background job.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
