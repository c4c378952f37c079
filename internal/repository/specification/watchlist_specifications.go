package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByProductID filters price points (or alerts) by product.
type ByProductID struct {
	ProductID uuid.UUID
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}

// ByURL matches a watched product by its canonical URL.
type ByURL struct {
	URL string
}

func (s ByURL) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("url = ?", s.URL)
}

// ObservedSince keeps price points at or after the given instant.
type ObservedSince struct {
	Since time.Time
}

func (s ObservedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("observed_at >= ?", s.Since)
}
