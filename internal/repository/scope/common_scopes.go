package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// ObservedAtDesc orders price points newest observation first.
func ObservedAtDesc(db *gorm.DB) *gorm.DB {
	return db.Order("observed_at DESC")
}

// DueSoonest orders reminders by due time, earliest first.
func DueSoonest(db *gorm.DB) *gorm.DB {
	return db.Order("due_at ASC")
}
