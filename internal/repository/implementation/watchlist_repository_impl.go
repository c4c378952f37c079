package implementation

import (
	"context"
	"errors"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/mapper"
	"tabsensei-be/internal/model"
	"tabsensei-be/internal/repository/contract"
	"tabsensei-be/internal/repository/scope"
	"tabsensei-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WatchlistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WatchlistMapper
}

func NewWatchlistRepository(db *gorm.DB) contract.WatchlistRepository {
	return &WatchlistRepositoryImpl{
		db:     db,
		mapper: mapper.NewWatchlistMapper(),
	}
}

func (r *WatchlistRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WatchlistRepositoryImpl) Create(ctx context.Context, product *entity.WatchedProduct) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *WatchlistRepositoryImpl) Update(ctx context.Context, product *entity.WatchedProduct) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *WatchlistRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.WatchedProduct{}, id).Error
}

func (r *WatchlistRepositoryImpl) DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("device_id = ?", deviceId).Delete(&model.WatchedProduct{}).Error
}

func (r *WatchlistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WatchedProduct, error) {
	var m model.WatchedProduct
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WatchlistRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WatchedProduct, error) {
	var models []*model.WatchedProduct
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *WatchlistRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WatchedProduct{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type PricePointRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WatchlistMapper
}

func NewPricePointRepository(db *gorm.DB) contract.PricePointRepository {
	return &PricePointRepositoryImpl{
		db:     db,
		mapper: mapper.NewWatchlistMapper(),
	}
}

func (r *PricePointRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PricePointRepositoryImpl) Create(ctx context.Context, point *entity.PricePoint) error {
	m := r.mapper.PricePointToModel(point)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*point = *r.mapper.PricePointToEntity(m)
	return nil
}

func (r *PricePointRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PricePoint, error) {
	var models []*model.PricePoint
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PricePointsToEntities(models), nil
}

func (r *PricePointRepositoryImpl) LatestByProduct(ctx context.Context, productId uuid.UUID) (*entity.PricePoint, error) {
	var m model.PricePoint
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productId).
		Scopes(scope.ObservedAtDesc).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PricePointToEntity(&m), nil
}

func (r *PricePointRepositoryImpl) DeleteByProductId(ctx context.Context, productId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productId).Delete(&model.PricePoint{}).Error
}

func (r *PricePointRepositoryImpl) DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error {
	// Subquery to find product IDs for the device
	subQuery := r.db.Table("watched_products").Select("id").Where("device_id = ?", deviceId)
	return r.db.WithContext(ctx).Unscoped().Where("product_id IN (?)", subQuery).Delete(&model.PricePoint{}).Error
}
