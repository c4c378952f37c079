package mapper

import (
	"time"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/model"

	"gorm.io/gorm"
)

type WatchlistMapper struct{}

func NewWatchlistMapper() *WatchlistMapper {
	return &WatchlistMapper{}
}

func (m *WatchlistMapper) ToEntity(w *model.WatchedProduct) *entity.WatchedProduct {
	if w == nil {
		return nil
	}

	var deletedAt *time.Time
	if w.DeletedAt.Valid {
		t := w.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !w.UpdatedAt.IsZero() {
		t := w.UpdatedAt
		updatedAt = &t
	}

	return &entity.WatchedProduct{
		Id:           w.Id,
		DeviceId:     w.DeviceId,
		Title:        w.Title,
		URL:          w.URL,
		Currency:     w.Currency,
		TargetPrice:  w.TargetPrice,
		ThresholdPct: w.ThresholdPct,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    w.DeletedAt.Valid,
	}
}

func (m *WatchlistMapper) ToModel(w *entity.WatchedProduct) *model.WatchedProduct {
	if w == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if w.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *w.DeletedAt, Valid: true}
	} else if w.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if w.UpdatedAt != nil {
		updatedAt = *w.UpdatedAt
	}

	return &model.WatchedProduct{
		Id:           w.Id,
		DeviceId:     w.DeviceId,
		Title:        w.Title,
		URL:          w.URL,
		Currency:     w.Currency,
		TargetPrice:  w.TargetPrice,
		ThresholdPct: w.ThresholdPct,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *WatchlistMapper) ToEntities(products []*model.WatchedProduct) []*entity.WatchedProduct {
	entities := make([]*entity.WatchedProduct, len(products))
	for i, w := range products {
		entities[i] = m.ToEntity(w)
	}
	return entities
}

func (m *WatchlistMapper) PricePointToEntity(p *model.PricePoint) *entity.PricePoint {
	if p == nil {
		return nil
	}
	return &entity.PricePoint{
		Id:         p.Id,
		ProductId:  p.ProductId,
		Amount:     p.Amount,
		Currency:   p.Currency,
		ObservedAt: p.ObservedAt,
	}
}

func (m *WatchlistMapper) PricePointToModel(p *entity.PricePoint) *model.PricePoint {
	if p == nil {
		return nil
	}
	return &model.PricePoint{
		Id:         p.Id,
		ProductId:  p.ProductId,
		Amount:     p.Amount,
		Currency:   p.Currency,
		ObservedAt: p.ObservedAt,
	}
}

func (m *WatchlistMapper) PricePointsToEntities(points []*model.PricePoint) []*entity.PricePoint {
	entities := make([]*entity.PricePoint, len(points))
	for i, p := range points {
		entities[i] = m.PricePointToEntity(p)
	}
	return entities
}
