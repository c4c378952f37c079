package specification

import "gorm.io/gorm"

// SessionNameQuery filters tab sessions by name, case-insensitive.
type SessionNameQuery struct {
	Query string
}

func (s SessionNameQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("name ILIKE ?", pattern)
}
