package price

import "context"

// Product is a watched product as the engine sees it. The persistence
// layer owns the full record; this is the slice the heuristics need.
type Product struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Currency     string  `json:"currency"`
	TargetPrice  float64 `json:"target_price,omitempty"`
	ThresholdPct float64 `json:"threshold_pct,omitempty"`
	LatestPrice  float64 `json:"latest_price,omitempty"`
}

// Store is the narrow persistence contract the engine calls through.
// Implementations live with the repository layer; the engine accepts a
// nil Store and simply skips persistence.
type Store interface {
	RecordPrice(ctx context.Context, productID string, price float64, currency string) error
	PriceHistory(ctx context.Context, productID string, days int) ([]Point, error)
	WatchedProducts(ctx context.Context) ([]Product, error)
	CreateAlert(ctx context.Context, productID string, message string, oldPrice, newPrice float64) error
}
