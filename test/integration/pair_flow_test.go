package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
)

func TestPairFlow(t *testing.T) {
	app, db := newTestApp(t)

	var token string
	var deviceID string

	defer func() {
		if deviceID != "" {
			db.Exec("DELETE FROM devices WHERE id = ?", deviceID)
		}
	}()

	t.Run("Pair success", func(t *testing.T) {
		reqBody := dto.PairRequest{
			PairCode:   testPairCode,
			DeviceName: "Integration Chrome",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/pair", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.PairResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Data.Token)

		token = result.Data.Token
		deviceID = result.Data.DeviceId.String()
	})

	t.Run("Pair with wrong code denied", func(t *testing.T) {
		reqBody := dto.PairRequest{
			PairCode:   "wrong-code",
			DeviceName: "Evil Device",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/pair", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Pair with missing fields rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/pair", strings.NewReader(`{"pair_code": "test-pair-code"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Heartbeat with token", func(t *testing.T) {
		if token == "" {
			t.Skip("No token from pair step")
		}

		req := httptest.NewRequest("POST", "/api/auth/heartbeat", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Protected route without token denied", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/watchlist/v1", nil)

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestUnpairFlow(t *testing.T) {
	app, db := newTestApp(t)
	token, deviceID := pairTestDevice(t, app, db, "Unpair Test Device")

	t.Run("Store data under the device", func(t *testing.T) {
		initial := 59.99
		watchBody, _ := json.Marshal(dto.WatchProductRequest{
			Title:        "Unpair Test Product",
			URL:          "https://shop.example.com/unpair-test",
			Currency:     "USD",
			InitialPrice: &initial,
		})
		req := httptest.NewRequest("POST", "/api/watchlist/v1", strings.NewReader(string(watchBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		sessionBody, _ := json.Marshal(dto.SaveSessionRequest{
			Name: "doomed session",
			Tabs: []dto.AgentTab{
				{TabId: 1, Title: "Example", URL: "https://example.com", Text: "About to be wiped."},
			},
		})
		req = httptest.NewRequest("POST", "/api/session/v1", strings.NewReader(string(sessionBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Unpair removes the device and its data", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/auth/device", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var count int64
		db.Table("devices").Where("id = ?", deviceID).Count(&count)
		assert.Equal(t, int64(0), count, "device row should be gone")

		db.Table("watched_products").Where("device_id = ?", deviceID).Count(&count)
		assert.Equal(t, int64(0), count, "watchlist should be gone")

		db.Table("tab_sessions").Where("device_id = ?", deviceID).Count(&count)
		assert.Equal(t, int64(0), count, "sessions should be gone")
	})

	t.Run("Unpair twice is harmless", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/auth/device", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)
	})
}
