package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm/llmtest"
)

const deppText = "Johnny Depp (born June 9, 1963) is an American actor. " +
	"He rose to prominence on the television series 21 Jump Street (1987). " +
	"He has been nominated for many industry awards."

func deppTab(id int) tab.Tab {
	return tab.Tab{
		ID:    id,
		Title: "Johnny Depp - Wikipedia",
		URL:   "https://en.wikipedia.org/wiki/Johnny_Depp",
		Text:  deppText,
	}
}

func newTestOrchestrator(stub *llmtest.Stub, store price.Store) *Orchestrator {
	return New(stub, store, nil, DefaultConfig())
}

func TestRunClarify(t *testing.T) {
	stub := &llmtest.Stub{}
	o := newTestOrchestrator(stub, nil)

	out := o.Run(context.Background(), intent.Plan{Mode: intent.ModeClarify},
		tab.Query{Text: "ok"}, []tab.Tab{deppTab(1)})

	if out.Mode != intent.ModeClarify {
		t.Fatalf("mode = %q, want clarify", out.Mode)
	}
	if out.Text != clarifyMessage {
		t.Errorf("text = %q, want the clarify prompt", out.Text)
	}
	if stub.CallCount() != 0 {
		t.Errorf("clarify made %d provider calls, want 0", stub.CallCount())
	}
}

func TestRunReminder(t *testing.T) {
	stub := &llmtest.Stub{}
	o := newTestOrchestrator(stub, nil)

	out := o.Run(context.Background(), intent.Plan{Mode: intent.ModeReminder},
		tab.Query{Text: "remind me to check the oven at 5pm"}, nil)

	if out.Mode != intent.ModeReminder {
		t.Fatalf("mode = %q, want reminder", out.Mode)
	}
	if !strings.Contains(out.Text, "5pm") {
		t.Errorf("confirmation %q does not echo the time", out.Text)
	}
	if len(out.Alerts) != 1 || out.Alerts[0]["kind"] != "reminder" {
		t.Errorf("alerts = %v, want one reminder alert", out.Alerts)
	}
}

func TestRunReminderWithoutTime(t *testing.T) {
	o := newTestOrchestrator(&llmtest.Stub{}, nil)

	out := o.Run(context.Background(), intent.Plan{Mode: intent.ModeReminder},
		tab.Query{Text: "remind me to call the dentist"}, nil)

	if !strings.Contains(strings.ToLower(out.Text), "when") {
		t.Errorf("text = %q, want a follow-up question about the time", out.Text)
	}
	if len(out.Alerts) != 0 {
		t.Errorf("no alert should be raised without a time, got %v", out.Alerts)
	}
}

func TestRunPriceAlert(t *testing.T) {
	stub := &llmtest.Stub{}
	o := newTestOrchestrator(stub, nil)

	tabs := []tab.Tab{
		{ID: 1, Title: "Sony WH-1000XM5 | Amazon", URL: "https://www.amazon.com/sony", Text: "Wireless headphones. Price: $279.99 in stock."},
		{ID: 2, Title: "Headphone reviews", URL: "https://reviews.example.com", Text: "No prices here, just long opinions."},
	}
	out := o.Run(context.Background(), intent.Plan{Mode: intent.ModePriceAlert}, tab.Query{Text: "watch this price"}, tabs)

	if out.Mode != intent.ModePriceAlert {
		t.Fatalf("mode = %q, want price_alert", out.Mode)
	}
	if !strings.Contains(out.Text, "279.99") {
		t.Errorf("text = %q, want the watched price echoed", out.Text)
	}
	if len(out.Alerts) != 1 || out.Alerts[0]["kind"] != "price_watch" {
		t.Fatalf("alerts = %v, want one price_watch", out.Alerts)
	}
	prices, ok := out.PriceInfo["prices"].([]map[string]interface{})
	if !ok || len(prices) != 1 {
		t.Fatalf("price_info = %v, want one priced tab", out.PriceInfo)
	}
	if prices[0]["tab_id"] != 1 {
		t.Errorf("priced tab_id = %v, want 1", prices[0]["tab_id"])
	}
}

func TestRunPriceAlertWithoutPrices(t *testing.T) {
	o := newTestOrchestrator(&llmtest.Stub{}, nil)

	out := o.Run(context.Background(), intent.Plan{Mode: intent.ModePriceAlert},
		tab.Query{Text: "track the price"}, []tab.Tab{
			{ID: 1, Title: "Just an article", URL: "https://example.com", Text: "Nothing for sale in this text."},
		})

	if len(out.Alerts) != 0 {
		t.Errorf("alerts = %v, want none without a readable price", out.Alerts)
	}
	if out.Text == "" {
		t.Error("text must explain that no price was found")
	}
}

type recordedPrice struct {
	productID string
	amount    float64
	currency  string
}

type fakeStore struct {
	products []price.Product
	recorded []recordedPrice
	alerts   []string
	listErr  error
	writeErr error
}

func (f *fakeStore) RecordPrice(_ context.Context, productID string, amount float64, currency string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.recorded = append(f.recorded, recordedPrice{productID, amount, currency})
	return nil
}

func (f *fakeStore) PriceHistory(context.Context, string, int) ([]price.Point, error) {
	return nil, nil
}

func (f *fakeStore) WatchedProducts(context.Context) ([]price.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeStore) CreateAlert(_ context.Context, _ string, message string, _, _ float64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.alerts = append(f.alerts, message)
	return nil
}

func TestRecordWatchedPrices(t *testing.T) {
	store := &fakeStore{products: []price.Product{
		{ID: "p1", Title: "Sony WH-1000XM5", URL: "https://shop.example.com/headphones", LatestPrice: 100},
	}}
	o := newTestOrchestrator(&llmtest.Stub{}, store)

	tabs := []tab.Tab{
		{ID: 1, URL: "https://shop.example.com/headphones?ref=mail", Title: "Sony WH-1000XM5", Text: "Now only $85.00 with free shipping."},
		{ID: 2, URL: "https://other.example.com/item", Title: "Unwatched thing", Text: "Price: $12.00"},
	}
	o.recordWatchedPrices(context.Background(), tabs)

	if len(store.recorded) != 1 {
		t.Fatalf("recorded %d prices, want 1 (only the watched URL)", len(store.recorded))
	}
	got := store.recorded[0]
	if got.productID != "p1" || got.amount != 85 || got.currency != "USD" {
		t.Errorf("recorded = %+v, want p1/85/USD", got)
	}
	if len(store.alerts) != 1 {
		t.Fatalf("alerts = %v, want one drop alert (15%% under last price)", store.alerts)
	}
	if !strings.Contains(store.alerts[0], "Sony WH-1000XM5") {
		t.Errorf("alert %q should name the product", store.alerts[0])
	}
}

func TestRecordWatchedPricesToleratesStoreErrors(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	o := newTestOrchestrator(&llmtest.Stub{}, store)

	// Must not panic and must not surface the error anywhere.
	o.recordWatchedPrices(context.Background(), []tab.Tab{
		{ID: 1, URL: "https://shop.example.com/x", Text: "Price: $10.00"},
	})
}

func TestRunDispatchesTabCountFirst(t *testing.T) {
	stub := &llmtest.Stub{Default: "You have 1 tab open."}
	o := newTestOrchestrator(stub, nil)

	// WantsTabCount wins even though the mode is analysis.
	plan := intent.Plan{Mode: intent.ModeAnalysis, WantsTabCount: true}
	out := o.Run(context.Background(), plan, tab.Query{Text: "how many tabs do i have"}, []tab.Tab{deppTab(1)})

	if !strings.Contains(out.Text, "1") {
		t.Errorf("text = %q, want the exact count", out.Text)
	}
	if ws := out.WorkspaceSummary; ws == nil || ws["total_tabs"] != 1 {
		t.Errorf("workspace summary = %v, want total_tabs=1", ws)
	}
}

func TestJoinNatural(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b, and c"},
	}
	for _, c := range cases {
		if got := joinNatural(c.in); got != c.want {
			t.Errorf("joinNatural(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCurrencyMark(t *testing.T) {
	if got := currencyMark("EUR"); got != "€" {
		t.Errorf("EUR mark = %q", got)
	}
	if got := currencyMark(""); got != "$" {
		t.Errorf("empty currency mark = %q, want $", got)
	}
	if got := currencyMark("CHF"); got != "CHF " {
		t.Errorf("unknown currency mark = %q, want code with space", got)
	}
}
