package price

import (
	"math"
	"testing"
	"time"

	"tabsensei-be/pkg/agent/tab"
)

func TestFromText(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAmount   float64
		wantCurrency string
		wantOK       bool
	}{
		{name: "dollar with cents", input: "Now only $1,299.99 with free shipping", wantAmount: 1299.99, wantCurrency: "USD", wantOK: true},
		{name: "dollar no cents", input: "Price: $45", wantAmount: 45, wantCurrency: "USD", wantOK: true},
		{name: "euro suffix", input: "Nur 49,99 € heute", wantAmount: 49.99, wantCurrency: "EUR", wantOK: true},
		{name: "pound", input: "£749 - in stock", wantAmount: 749, wantCurrency: "GBP", wantOK: true},
		{name: "currency code", input: "Total 129.50 USD at checkout", wantAmount: 129.50, wantCurrency: "USD", wantOK: true},
		{name: "price label without symbol", input: "price: 89.99 was 120", wantAmount: 89.99, wantCurrency: "USD", wantOK: true},
		{name: "rupee", input: "₹2,499 incl. GST", wantAmount: 2499, wantCurrency: "INR", wantOK: true},
		{name: "no price", input: "Johnny Depp is an American actor", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromText(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("FromText(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(got.Amount-tt.wantAmount) > 1e-9 {
				t.Errorf("FromText(%q) amount = %v, want %v", tt.input, got.Amount, tt.wantAmount)
			}
			if got.Currency != tt.wantCurrency {
				t.Errorf("FromText(%q) currency = %q, want %q", tt.input, got.Currency, tt.wantCurrency)
			}
		})
	}
}

func TestFromTabPrefersText(t *testing.T) {
	tb := tab.Tab{
		Title: "Widget Deluxe - $99.99 | MegaShop",
		Text:  "Spring sale: $79.99 today only.",
	}
	got, ok := FromTab(tb)
	if !ok || got.Amount != 79.99 {
		t.Errorf("FromTab = (%v, %v), want text price 79.99", got.Amount, ok)
	}

	titleOnly := tab.Tab{Title: "Widget Deluxe - $99.99", Text: "No numbers here."}
	got, ok = FromTab(titleOnly)
	if !ok || got.Amount != 99.99 {
		t.Errorf("FromTab title fallback = (%v, %v), want 99.99", got.Amount, ok)
	}
}

func TestProductName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Sony WH-1000XM5 Wireless Headphones - Amazon.com", want: "Sony WH-1000XM5 Wireless Headphones"},
		{title: "Buy AirPods Pro 2 | Official Site", want: "AirPods Pro 2"},
		{title: "Widget Deluxe - $99.99 | eBay", want: "Widget Deluxe"},
		{title: "Plain Product Page", want: "Plain Product Page"},
	}
	for _, tt := range tests {
		got := ProductName(tab.Tab{Title: tt.title})
		if got != tt.want {
			t.Errorf("ProductName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func history(prices ...float64) []Point {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]Point, len(prices))
	for i, p := range prices {
		pts[i] = Point{Price: p, Currency: "USD", At: base.AddDate(0, 0, i)}
	}
	return pts
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name          string
		points        []Point
		wantDirection string
	}{
		{name: "falling", points: history(100, 95, 80), wantDirection: "falling"},
		{name: "rising", points: history(80, 95, 100), wantDirection: "rising"},
		{name: "stable", points: history(100, 101, 102), wantDirection: "stable"},
		{name: "single sample", points: history(50), wantDirection: "unknown"},
		{name: "empty", points: nil, wantDirection: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.points)
			if got.Direction != tt.wantDirection {
				t.Errorf("Analyze(%s) direction = %q, want %q", tt.name, got.Direction, tt.wantDirection)
			}
		})
	}

	tr := Analyze(history(100, 90, 80))
	if tr.Min != 80 || tr.Max != 100 || math.Abs(tr.Avg-90) > 1e-9 {
		t.Errorf("Analyze stats = min %v max %v avg %v", tr.Min, tr.Max, tr.Avg)
	}
	if math.Abs(tr.ChangePct-(-20)) > 1e-9 {
		t.Errorf("Analyze change = %v, want -20", tr.ChangePct)
	}
}

func TestDropAlert(t *testing.T) {
	tests := []struct {
		name       string
		old, new   float64
		threshold  float64
		target     float64
		wantAlert  bool
		wantReason string
	}{
		{name: "ten percent drop default threshold", old: 100, new: 89, wantAlert: true, wantReason: "drop"},
		{name: "small drop below threshold", old: 100, new: 95, wantAlert: false},
		{name: "custom threshold", old: 100, new: 95, threshold: 0.04, wantAlert: true, wantReason: "drop"},
		{name: "price rose", old: 100, new: 120, wantAlert: false},
		{name: "target hit", old: 100, new: 99, target: 99, wantAlert: true, wantReason: "target"},
		{name: "zero old price", old: 0, new: 50, wantAlert: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert, reason := DropAlert(tt.old, tt.new, tt.threshold, tt.target)
			if alert != tt.wantAlert || reason != tt.wantReason {
				t.Errorf("DropAlert(%v→%v) = (%v, %q), want (%v, %q)", tt.old, tt.new, alert, reason, tt.wantAlert, tt.wantReason)
			}
		})
	}
}
