package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWatchlistFlow(t *testing.T) {
	app, db := newTestApp(t)
	token, deviceID := pairTestDevice(t, app, db, "Watchlist Test Device")

	t.Cleanup(func() {
		db.Exec("DELETE FROM alerts WHERE device_id = ?", deviceID)
		db.Exec("DELETE FROM price_points WHERE product_id IN (SELECT id FROM watched_products WHERE device_id = ?)", deviceID)
		db.Exec("DELETE FROM watched_products WHERE device_id = ?", deviceID)
	})

	var productID string

	t.Run("Watch Product", func(t *testing.T) {
		threshold := 0.10
		initial := 129.99
		reqBody := dto.WatchProductRequest{
			Title:        "Integration Wireless Headphones",
			URL:          "https://shop.example.com/headphones?ref=test",
			Currency:     "USD",
			ThresholdPct: &threshold,
			InitialPrice: &initial,
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/watchlist/v1", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.WatchProductResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.NotEqual(t, uuid.Nil, result.Data.Id)
		productID = result.Data.Id.String()
	})

	t.Run("Watching the same URL updates instead of duplicating", func(t *testing.T) {
		target := 100.0
		reqBody := dto.WatchProductRequest{
			Title: "Integration Wireless Headphones (renamed)",
			// Same page, different tracking param: must hit the same row
			URL:         "https://shop.example.com/headphones?ref=email",
			TargetPrice: &target,
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/watchlist/v1", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.WatchProductResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.Equal(t, productID, result.Data.Id.String(), "Same canonical URL should reuse the watch entry")
	})

	t.Run("List Watched Products", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/watchlist/v1", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[[]*dto.WatchedProductItem]
		json.NewDecoder(resp.Body).Decode(&result)

		if assert.Len(t, result.Data, 1) {
			assert.Equal(t, productID, result.Data[0].Id.String())
			if assert.NotNil(t, result.Data[0].LatestPrice) {
				assert.Equal(t, 129.99, *result.Data[0].LatestPrice)
			}
		}
	})

	t.Run("Record Small Dip Does Not Alert", func(t *testing.T) {
		reqBody := dto.RecordPriceRequest{Amount: 128.00}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/watchlist/v1/"+productID+"/price", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.RecordPriceResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.False(t, result.Data.DropDetected, "1.5%% dip should stay under the 10%% threshold")
	})

	t.Run("Record Big Drop Alerts", func(t *testing.T) {
		reqBody := dto.RecordPriceRequest{Amount: 99.99}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/watchlist/v1/"+productID+"/price", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.RecordPriceResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Data.DropDetected)
		assert.NotEmpty(t, result.Data.AlertMessage)
	})

	t.Run("History Shows Trend", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/watchlist/v1/"+productID+"/history", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.PriceHistoryResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.Len(t, result.Data.Points, 3)
		if assert.NotNil(t, result.Data.Trend) {
			assert.Equal(t, "falling", result.Data.Trend.Direction)
		}
	})

	t.Run("Other Device Cannot Touch Product", func(t *testing.T) {
		otherToken, _ := pairTestDevice(t, app, db, "Second Device")

		req := httptest.NewRequest("GET", "/api/watchlist/v1/"+productID+"/history", nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Unwatch Product", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/watchlist/v1/"+productID, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)

		if resp.StatusCode != 200 {
			var errRes serverutils.BaseResponse[any]
			json.NewDecoder(resp.Body).Decode(&errRes)
			fmt.Printf("Unwatch Status: %d, Msg: %s\n", resp.StatusCode, errRes.Message)
		}
		assert.Equal(t, 200, resp.StatusCode)

		// List should be empty again
		req = httptest.NewRequest("GET", "/api/watchlist/v1", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ = app.Test(req, -1)

		var result serverutils.BaseResponse[[]*dto.WatchedProductItem]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Data, 0)
	})
}
