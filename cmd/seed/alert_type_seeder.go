package main

import (
	"log"

	"tabsensei-be/internal/model"
	"tabsensei-be/pkg/events"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedAlertTypes populates the database with the default alert registry.
// Codes must match the event types published on the bus.
func SeedAlertTypes(db *gorm.DB) {
	types := []model.AlertType{
		{
			Code:        events.TypePriceDrop,
			DisplayName: "Price Drop",
			Template:    "{message}",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        events.TypeReminderDue,
			DisplayName: "Reminder",
			Template:    "{message}",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        events.TypeSessionSaved,
			DisplayName: "Session Saved",
			Template:    "Saved session \"{name}\" with {tab_count} tabs",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        events.TypeSystemBroadcast,
			DisplayName: "System Announcement",
			Template:    "{message}",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "TEST_EVENT",
			DisplayName: "Test Alert",
			Template:    "This is a test alert: {message}",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		// PostgreSQL specific ON CONFLICT to avoid duplicates
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding alert type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Alert types seeded successfully.")
}
