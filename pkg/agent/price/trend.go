package price

import "time"

// DefaultDropThreshold is the relative drop that raises an alert when a
// product has no explicit threshold of its own: 10%.
const DefaultDropThreshold = 0.10

// stableBand is the relative change under which a history counts as
// flat.
const stableBand = 0.05

// Point is one recorded price observation.
type Point struct {
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	At       time.Time `json:"date"`
}

// Trend summarizes a price history window.
type Trend struct {
	Direction string  `json:"direction"` // "rising", "falling", "stable", "unknown"
	ChangePct float64 `json:"change_pct"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Avg       float64 `json:"avg"`
	Samples   int     `json:"samples"`
}

// Analyze computes the trend over points ordered oldest first. Fewer
// than two samples yield direction "unknown".
func Analyze(points []Point) Trend {
	t := Trend{Direction: "unknown", Samples: len(points)}
	if len(points) == 0 {
		return t
	}
	t.Min = points[0].Price
	t.Max = points[0].Price
	sum := 0.0
	for _, p := range points {
		if p.Price < t.Min {
			t.Min = p.Price
		}
		if p.Price > t.Max {
			t.Max = p.Price
		}
		sum += p.Price
	}
	t.Avg = sum / float64(len(points))
	if len(points) < 2 {
		return t
	}
	first, last := points[0].Price, points[len(points)-1].Price
	if first > 0 {
		change := (last - first) / first
		t.ChangePct = change * 100
		switch {
		case change > stableBand:
			t.Direction = "rising"
		case change < -stableBand:
			t.Direction = "falling"
		default:
			t.Direction = "stable"
		}
	}
	return t
}

// DropAlert reports whether moving from oldPrice to newPrice should
// raise an alert. thresholdPct <= 0 falls back to DefaultDropThreshold;
// targetPrice > 0 additionally alerts when the new price lands at or
// below it.
func DropAlert(oldPrice, newPrice, thresholdPct, targetPrice float64) (bool, string) {
	if targetPrice > 0 && newPrice > 0 && newPrice <= targetPrice {
		return true, "target"
	}
	if oldPrice <= 0 || newPrice <= 0 || newPrice >= oldPrice {
		return false, ""
	}
	threshold := thresholdPct
	if threshold <= 0 {
		threshold = DefaultDropThreshold
	}
	if (oldPrice-newPrice)/oldPrice >= threshold {
		return true, "drop"
	}
	return false, ""
}
