package main

import (
	"log"
	"time"

	"tabsensei-be/internal/model"

	"gorm.io/gorm"
)

// SeedDemoData creates a demo device with a watched product and a week
// of falling prices, enough to exercise the watchlist UI and the
// watcher sweep locally.
func SeedDemoData(db *gorm.DB) {
	device := model.Device{Name: "Demo Device", UserAgent: "seed/1.0"}
	if err := db.Where("name = ?", device.Name).FirstOrCreate(&device).Error; err != nil {
		log.Printf("Warning: Failed to seed demo device: %v", err)
		return
	}

	product := model.WatchedProduct{
		DeviceId:     device.Id,
		Title:        "Sony WH-1000XM5 Wireless Headphones",
		URL:          "https://shop.example.com/headphones/xm5",
		Currency:     "USD",
		ThresholdPct: 0.10,
	}
	if err := db.Where("device_id = ? AND url = ?", product.DeviceId, product.URL).
		FirstOrCreate(&product).Error; err != nil {
		log.Printf("Warning: Failed to seed demo product: %v", err)
		return
	}

	var count int64
	db.Model(&model.PricePoint{}).Where("product_id = ?", product.Id).Count(&count)
	if count > 0 {
		log.Println("Demo price history already present, skipping.")
		return
	}

	now := time.Now()
	prices := []float64{149.99, 144.50, 139.99, 129.99}
	for i, amount := range prices {
		point := model.PricePoint{
			ProductId:  product.Id,
			Amount:     amount,
			Currency:   "USD",
			ObservedAt: now.AddDate(0, 0, -(len(prices)-1-i)*2),
		}
		if err := db.Create(&point).Error; err != nil {
			log.Printf("Warning: Failed to seed price point: %v", err)
		}
	}

	log.Printf("✅ Demo data seeded for device %s.", device.Id)
}
