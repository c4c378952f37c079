// Package answer drives the answer-generation paths: the fast path for
// narrow factual questions, the full pipeline for workspace-wide
// requests, and the degradation ladder that keeps both alive when the
// completion service is slow or down. Per request the flow is
// START → fast path or full pipeline → answered, degraded, or error —
// never an escaped failure.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/agent/rank"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm"
)

// Logger is the minimal logging hook the orchestrator needs; satisfied
// by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

// Config tunes the orchestrator. Zero value is unusable; start from
// DefaultConfig.
type Config struct {
	// FastPathMaxTabs is the tab count below which a single-fact
	// question skips the pipeline entirely.
	FastPathMaxTabs int

	// BatchSize bounds the summary worker pool.
	BatchSize int

	// CompareTabLimit caps how many ranked tabs join a comparison.
	CompareTabLimit int

	// PreRankLimit caps the merged-content tab set when a fact question
	// arrives with a large workspace.
	PreRankLimit int

	Rank rank.Config
}

func DefaultConfig() Config {
	return Config{
		FastPathMaxTabs: 10,
		BatchSize:       3,
		CompareTabLimit: 4,
		PreRankLimit:    5,
		Rank:            rank.DefaultConfig(),
	}
}

// Outcome is what a run produces before the reply assembler normalizes
// it into the boundary shape. Partial is fine: the assembler fills
// defaults.
type Outcome struct {
	Text             string
	Mode             intent.Mode
	ChosenTabID      *int
	CloseTabIDs      []int
	WorkspaceSummary map[string]interface{}
	Alerts           []map[string]interface{}
	PriceInfo        map[string]interface{}
	ShouldAskCleanup bool

	// Degraded marks answers produced by local extraction instead of
	// the completion service.
	Degraded bool
}

// Orchestrator owns the answer paths. The completion provider and the
// price store are injected; the store may be nil, which disables
// persistence side effects but nothing else.
type Orchestrator struct {
	provider llm.Provider
	store    price.Store
	logger   Logger
	cfg      Config
}

func New(provider llm.Provider, store price.Store, logger Logger, cfg Config) *Orchestrator {
	if logger == nil {
		logger = noopLogger{}
	}
	if cfg.FastPathMaxTabs <= 0 {
		cfg = DefaultConfig()
	}
	return &Orchestrator{provider: provider, store: store, logger: logger, cfg: cfg}
}

// Fixed user-facing strings. Failures surface as natural language,
// never as codes.
const (
	clarifyMessage = "I can answer questions about your open tabs, compare products, " +
		"summarize your workspace, suggest tabs to close, set reminders, or watch prices. " +
		"What would you like me to do?"

	notFoundMessage = "I couldn't find the answer to that in your open tabs."
)

// Run executes the plan. It never returns an error; every failure mode
// ends in a usable Outcome.
func (o *Orchestrator) Run(ctx context.Context, plan intent.Plan, q tab.Query, tabs []tab.Tab) Outcome {
	if plan.WantsTabCount {
		return o.tabCount(ctx, tabs)
	}

	switch plan.Mode {
	case intent.ModeClarify:
		return Outcome{Text: clarifyMessage, Mode: intent.ModeClarify}
	case intent.ModeReminder:
		return o.reminder(ctx, q)
	case intent.ModePriceAlert:
		return o.priceAlert(ctx, tabs)
	case intent.ModeSingle:
		if len(tabs) < o.cfg.FastPathMaxTabs {
			return o.fastPath(ctx, q, tabs)
		}
		return o.fullPipeline(ctx, plan, q, tabs)
	default:
		return o.fullPipeline(ctx, plan, q, tabs)
	}
}

// complete issues one bounded completion call.
func (o *Orchestrator) complete(ctx context.Context, budget time.Duration, system, user string) (string, error) {
	return callBounded(ctx, budget, func(cctx context.Context) (string, error) {
		return llm.Complete(cctx, o.provider, system, user, llm.WithTemperature(0.3))
	})
}

// reminder confirms the reminder and records it as an alert when a
// store is wired. Time parsing is heuristic; the phrase is echoed back
// so the user can correct it ("I said 7 not 6").
func (o *Orchestrator) reminder(ctx context.Context, q tab.Query) Outcome {
	phrase, ok := intent.TimePhrase(q.Text)
	if !ok {
		// A reminder intent without a time: ask for one instead of
		// inventing it.
		return Outcome{
			Text: "Sure — when should I remind you?",
			Mode: intent.ModeReminder,
		}
	}

	message := fmt.Sprintf("Reminder (%s): %s", phrase, strings.TrimSpace(q.Text))
	if o.store != nil {
		if err := o.store.CreateAlert(ctx, "", message, 0, 0); err != nil {
			o.logger.Printf("[WARN] reminder alert not persisted: %v", err)
		}
	}
	return Outcome{
		Text: fmt.Sprintf("Done — I'll remind you at %s.", phrase),
		Mode: intent.ModeReminder,
		Alerts: []map[string]interface{}{
			{"kind": "reminder", "message": message, "time": phrase},
		},
	}
}

// priceAlert confirms a price watch for every tab with a readable
// price. The engine only records prices for already-watched URLs; the
// caller owns creating new watchlist entries from PriceInfo.
func (o *Orchestrator) priceAlert(ctx context.Context, tabs []tab.Tab) Outcome {
	prices := extractPrices(tabs)
	if len(prices) == 0 {
		return Outcome{
			Text: "I couldn't read a price from any open tab, so there's nothing to watch yet.",
			Mode: intent.ModePriceAlert,
		}
	}

	o.recordWatchedPrices(ctx, tabs)

	var lines []string
	alerts := make([]map[string]interface{}, 0, len(prices))
	for _, p := range prices {
		line := fmt.Sprintf("%s at %s%.2f", p.product, currencyMark(p.price.Currency), p.price.Amount)
		lines = append(lines, line)
		alerts = append(alerts, map[string]interface{}{
			"kind":    "price_watch",
			"message": "Watching " + line,
			"tab_id":  p.tabID,
		})
	}
	return Outcome{
		Text:      fmt.Sprintf("I'm watching %s and will alert you when the price drops.", joinNatural(lines)),
		Mode:      intent.ModePriceAlert,
		Alerts:    alerts,
		PriceInfo: priceInfoMap(prices),
	}
}

type tabPrice struct {
	tabID   int
	product string
	url     string
	price   price.Price
}

func extractPrices(tabs []tab.Tab) []tabPrice {
	var out []tabPrice
	for _, t := range tabs {
		if p, ok := price.FromTab(t); ok {
			out = append(out, tabPrice{
				tabID:   t.ID,
				product: price.ProductName(t),
				url:     t.URL,
				price:   p,
			})
		}
	}
	return out
}

func priceInfoMap(prices []tabPrice) map[string]interface{} {
	entries := make([]map[string]interface{}, 0, len(prices))
	for _, p := range prices {
		entries = append(entries, map[string]interface{}{
			"tab_id":   p.tabID,
			"product":  p.product,
			"url":      p.url,
			"amount":   p.price.Amount,
			"currency": p.price.Currency,
		})
	}
	return map[string]interface{}{"prices": entries}
}

// recordWatchedPrices feeds freshly observed prices into the store for
// URLs that are already on the watchlist, raising drop alerts as a side
// effect. Best-effort: store failures are logged, never surfaced.
func (o *Orchestrator) recordWatchedPrices(ctx context.Context, tabs []tab.Tab) {
	if o.store == nil {
		return
	}
	watched, err := o.store.WatchedProducts(ctx)
	if err != nil {
		o.logger.Printf("[WARN] watched products unavailable: %v", err)
		return
	}
	if len(watched) == 0 {
		return
	}
	byURL := make(map[string]price.Product, len(watched))
	for _, w := range watched {
		byURL[stripQuery(w.URL)] = w
	}
	for _, t := range tabs {
		p, ok := price.FromTab(t)
		if !ok {
			continue
		}
		product, ok := byURL[t.CanonicalURL()]
		if !ok {
			continue
		}
		if err := o.store.RecordPrice(ctx, product.ID, p.Amount, p.Currency); err != nil {
			o.logger.Printf("[WARN] price not recorded for %s: %v", product.ID, err)
			continue
		}
		if alert, reason := price.DropAlert(product.LatestPrice, p.Amount, product.ThresholdPct, product.TargetPrice); alert {
			message := fmt.Sprintf("Price %s for %s: %s%.2f (was %s%.2f)",
				dropPhrase(reason), product.Title, currencyMark(p.Currency), p.Amount, currencyMark(p.Currency), product.LatestPrice)
			if err := o.store.CreateAlert(ctx, product.ID, message, product.LatestPrice, p.Amount); err != nil {
				o.logger.Printf("[WARN] drop alert not persisted for %s: %v", product.ID, err)
			}
		}
	}
}

func dropPhrase(reason string) string {
	if reason == "target" {
		return "hit your target"
	}
	return "drop"
}

func stripQuery(u string) string {
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	return u
}

var currencyMarks = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "INR": "₹",
}

func currencyMark(code string) string {
	if m, ok := currencyMarks[code]; ok {
		return m
	}
	if code == "" {
		return "$"
	}
	return code + " "
}

// joinNatural renders "a", "a and b", "a, b, and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
