package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"tabsensei-be/internal/bootstrap"
	"tabsensei-be/internal/config"
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"
	"tabsensei-be/internal/server"
	"tabsensei-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPairCode = "test-pair-code"

// newTestApp boots the full app against the real database. Skips the
// calling test when DB_CONNECTION_STRING is not set.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}

	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	// The middleware validates with the raw env var, so it has to be
	// set before config.Load for signing and validation to agree.
	t.Setenv("JWT_SECRET", "integration-test-secret")

	cfg := config.Load()

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPairCode), bcrypt.DefaultCost)
	cfg.Auth.PairSecretHash = string(hash)

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp(), db
}

// pairTestDevice pairs a fresh device through the API and returns its
// token. The device row is removed when the test finishes.
func pairTestDevice(t *testing.T, app *fiber.App, db *gorm.DB, name string) (string, string) {
	t.Helper()

	reqBody := dto.PairRequest{PairCode: testPairCode, DeviceName: name}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/auth/pair", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req, -1)
	assert.Equal(t, 200, resp.StatusCode, "Pairing should succeed")

	var result serverutils.BaseResponse[dto.PairResponse]
	json.NewDecoder(resp.Body).Decode(&result)

	token := result.Data.Token
	deviceID := result.Data.DeviceId.String()
	if token == "" {
		t.Fatal("Pairing returned no token")
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM devices WHERE id = ?", deviceID)
	})

	return token, deviceID
}
