package specification

import "gorm.io/gorm"

// Specification narrows a gorm query. Repositories accept any number
// of them and apply each in turn, so callers compose filters without
// the repository growing a method per combination.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
