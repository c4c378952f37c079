package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DeviceRepository())
	assert.NotNil(t, uow.WatchlistRepository())
	assert.NotNil(t, uow.TabSessionRepository())
	assert.NotNil(t, uow.SessionEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Device Repository", func(t *testing.T) {
		count, err := uow.DeviceRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Device count: %d", count)
	})

	t.Run("Check Watchlist Repository", func(t *testing.T) {
		count, err := uow.WatchlistRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("WatchedProduct count: %d", count)
	})

	t.Run("Check Transactional Watch With History", func(t *testing.T) {
		// Devices own everything, so create one first.
		deviceId := uuid.New()
		device := &entity.Device{
			Id:        deviceId,
			Name:      "Integration Test Device",
			UserAgent: "go-test",
		}

		err := uow.DeviceRepository().Create(context.Background(), device)
		assert.NoError(t, err)
		defer gormDB.Exec("DELETE FROM devices WHERE id = ?", deviceId)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		productId := uuid.New()
		product := &entity.WatchedProduct{
			Id:           productId,
			DeviceId:     deviceId,
			Title:        "Integration Test Headphones",
			URL:          "https://shop.example.com/headphones",
			Currency:     "USD",
			ThresholdPct: 0.10,
		}

		err = uow.WatchlistRepository().Create(ctx, product)
		assert.NoError(t, err)

		point := &entity.PricePoint{
			Id:         uuid.New(),
			ProductId:  productId,
			Amount:     129.99,
			Currency:   "USD",
			ObservedAt: time.Now(),
		}

		err = uow.PricePointRepository().Create(ctx, point)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Latest observation should be the one just written
		latest, err := uow.PricePointRepository().LatestByProduct(ctx, productId)
		assert.NoError(t, err)
		if assert.NotNil(t, latest) {
			assert.Equal(t, 129.99, latest.Amount)
		}

		// Cleanup
		gormDB.Exec("DELETE FROM price_points WHERE product_id = ?", productId)
		gormDB.Exec("DELETE FROM watched_products WHERE id = ?", productId)

		t.Log("Successfully created WatchedProduct with PricePoint in Transaction")
	})
}
