// FILE: internal/service/agent_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/model"
	"tabsensei-be/internal/pkg/logger"
	"tabsensei-be/internal/repository"
	"tabsensei-be/internal/repository/memory"
	"tabsensei-be/internal/repository/specification"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/pkg/agent"
	"tabsensei-be/pkg/agent/answer"
	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/events"
	"tabsensei-be/pkg/llm"
	pktNats "tabsensei-be/pkg/nats"
	"tabsensei-be/pkg/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IAgentService interface {
	Run(ctx context.Context, deviceId uuid.UUID, req *dto.AgentRunRequest) (*dto.AgentRunResponse, error)
	// ResetConversation drops the device's chat memory (the extension's
	// "new chat" button).
	ResetConversation(ctx context.Context, deviceId uuid.UUID) error
	Health(ctx context.Context) *dto.AgentHealthResponse
	RuntimeConfig() *dto.AgentConfigResponse
}

type agentService struct {
	uowFactory       unitofwork.RepositoryFactory
	alertRepo        repository.AlertRepository
	convRepo         *memory.ConversationRepository
	watchlistService IWatchlistService
	provider         llm.Provider
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	aiCfg            config.AIConfig
	engineCfg        answer.Config
}

func NewAgentService(
	uowFactory unitofwork.RepositoryFactory,
	alertRepo repository.AlertRepository,
	convRepo *memory.ConversationRepository,
	watchlistService IWatchlistService,
	provider llm.Provider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	aiCfg config.AIConfig,
) IAgentService {
	return &agentService{
		uowFactory:       uowFactory,
		alertRepo:        alertRepo,
		convRepo:         convRepo,
		watchlistService: watchlistService,
		provider:         provider,
		eventPublisher:   eventPublisher,
		logger:           log,
		aiCfg:            aiCfg,
		engineCfg:        answer.DefaultConfig(),
	}
}

func (s *agentService) Run(ctx context.Context, deviceId uuid.UUID, req *dto.AgentRunRequest) (*dto.AgentRunResponse, error) {
	conv, ok := s.convRepo.Get(deviceId.String())
	if !ok {
		conv = store.NewConversation(deviceId.String())
	}

	query := tab.Query{
		Text:    req.Query,
		History: toEngineHistory(conv.Window(tab.HistoryWindow)),
	}

	tabs := make([]tab.Tab, 0, len(req.Tabs))
	for _, t := range req.Tabs {
		tabs = append(tabs, tab.Tab{
			ID:    t.TabId,
			Title: t.Title,
			URL:   t.URL,
			Text:  t.Text,
		})
	}

	// The engine itself is two pointers; what matters is scoping the
	// price store to the calling device, so it is built per request.
	eng := agent.New(s.provider, s.deviceStore(deviceId), engineLogger{s.logger}, s.engineCfg)
	r := eng.Process(ctx, query, tabs)

	conv.Append(store.RoleUser, req.Query)
	conv.Append(store.RoleAssistant, r.Reply)
	s.convRepo.Save(conv)

	if r.Mode == string(intent.ModePriceAlert) {
		s.watchFromPriceInfo(ctx, deviceId, r.PriceInfo)
	}

	return &dto.AgentRunResponse{
		Reply:              r.Reply,
		Mode:               r.Mode,
		ChosenTabId:        r.ChosenTabID,
		SuggestedCloseTabs: r.SuggestedCloseTabIDs,
		WorkspaceSummary:   r.WorkspaceSummary,
		Alerts:             r.Alerts,
		PriceInfo:          r.PriceInfo,
		ShouldAskCleanup:   r.ShouldAskCleanup,
	}, nil
}

func (s *agentService) ResetConversation(ctx context.Context, deviceId uuid.UUID) error {
	s.convRepo.Delete(deviceId.String())
	return nil
}

// Health probes the database with a cheap indexed count; the rest of
// the report is wiring state, not liveness.
func (s *agentService) Health(ctx context.Context) *dto.AgentHealthResponse {
	_, dbErr := s.alertRepo.GetUnreadCount(ctx, uuid.Nil)
	return &dto.AgentHealthResponse{
		Status:   "ok",
		Provider: s.aiCfg.LLMProvider,
		Model:    s.aiCfg.LLMModel,
		Database: dbErr == nil,
		EventBus: s.eventPublisher != nil,
	}
}

func (s *agentService) RuntimeConfig() *dto.AgentConfigResponse {
	return &dto.AgentConfigResponse{
		Provider:          s.aiCfg.LLMProvider,
		Model:             s.aiCfg.LLMModel,
		EmbeddingProvider: s.aiCfg.EmbeddingProvider,
		EmbeddingModel:    s.aiCfg.EmbeddingModel,
		FastPathMaxTabs:   s.engineCfg.FastPathMaxTabs,
		BatchSize:         s.engineCfg.BatchSize,
		CompareTabLimit:   s.engineCfg.CompareTabLimit,
		SingleQATimeoutMs: answer.SingleQATimeout.Milliseconds(),
		MultiQATimeoutMs:  answer.MultiQATimeout.Milliseconds(),
	}
}

func toEngineHistory(turns []store.Turn) []tab.Turn {
	out := make([]tab.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, tab.Turn{Role: t.Role, Text: t.Text})
	}
	return out
}

// watchFromPriceInfo turns a "watch this price" turn into watchlist
// rows. The engine only records prices for URLs already watched; new
// entries are the service's job.
func (s *agentService) watchFromPriceInfo(ctx context.Context, deviceId uuid.UUID, priceInfo map[string]interface{}) {
	entries, ok := priceInfo["prices"].([]map[string]interface{})
	if !ok {
		return
	}
	for _, e := range entries {
		urlStr, _ := e["url"].(string)
		product, _ := e["product"].(string)
		amount, _ := e["amount"].(float64)
		currency, _ := e["currency"].(string)
		if urlStr == "" || product == "" {
			continue
		}
		req := dto.WatchProductRequest{
			Title:    product,
			URL:      urlStr,
			Currency: currency,
		}
		if amount > 0 {
			req.InitialPrice = &amount
		}
		if _, err := s.watchlistService.Watch(ctx, deviceId, &req); err != nil {
			s.logger.Warn("AgentService", "Watch entry not created from agent run", map[string]interface{}{"error": err, "url": urlStr})
		}
	}
}

// engineLogger adapts the structured logger to the engine's printf
// contract, routing on the engine's own level prefixes.
type engineLogger struct {
	log logger.ILogger
}

func (l engineLogger) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	switch {
	case strings.HasPrefix(msg, "[ERROR]"):
		l.log.Error("AgentEngine", strings.TrimSpace(strings.TrimPrefix(msg, "[ERROR]")), nil)
	case strings.HasPrefix(msg, "[WARN]"):
		l.log.Warn("AgentEngine", strings.TrimSpace(strings.TrimPrefix(msg, "[WARN]")), nil)
	default:
		l.log.Info("AgentEngine", strings.TrimSpace(strings.TrimPrefix(msg, "[INFO]")), nil)
	}
}

// deviceStore returns the engine's persistence port scoped to one
// device.
func (s *agentService) deviceStore(deviceId uuid.UUID) price.Store {
	return &deviceStore{
		uowFactory:     s.uowFactory,
		alertRepo:      s.alertRepo,
		eventPublisher: s.eventPublisher,
		logger:         s.logger,
		deviceId:       deviceId,
	}
}

type deviceStore struct {
	uowFactory     unitofwork.RepositoryFactory
	alertRepo      repository.AlertRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	deviceId       uuid.UUID
}

func (d *deviceStore) WatchedProducts(ctx context.Context) ([]price.Product, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.WatchlistRepository().FindAll(ctx,
		specification.OwnedByDevice{DeviceID: d.deviceId},
	)
	if err != nil {
		return nil, err
	}

	out := make([]price.Product, 0, len(products))
	for _, p := range products {
		item := price.Product{
			ID:           p.Id.String(),
			Title:        p.Title,
			URL:          p.URL,
			Currency:     p.Currency,
			ThresholdPct: p.ThresholdPct,
		}
		if p.TargetPrice != nil {
			item.TargetPrice = *p.TargetPrice
		}
		latest, err := uow.PricePointRepository().LatestByProduct(ctx, p.Id)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			item.LatestPrice = latest.Amount
		}
		out = append(out, item)
	}
	return out, nil
}

func (d *deviceStore) RecordPrice(ctx context.Context, productID string, amount float64, currency string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	uow := d.uowFactory.NewUnitOfWork(ctx)
	point := entity.PricePoint{
		Id:         uuid.New(),
		ProductId:  pid,
		Amount:     amount,
		Currency:   currency,
		ObservedAt: time.Now(),
	}
	return uow.PricePointRepository().Create(ctx, &point)
}

func (d *deviceStore) PriceHistory(ctx context.Context, productID string, days int) ([]price.Point, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	uow := d.uowFactory.NewUnitOfWork(ctx)
	points, err := uow.PricePointRepository().FindAll(ctx,
		specification.ByProductID{ProductID: pid},
		specification.ObservedSince{Since: time.Now().AddDate(0, 0, -days)},
		specification.OrderBy{Field: "observed_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	out := make([]price.Point, 0, len(points))
	for _, p := range points {
		out = append(out, price.Point{Price: p.Amount, Currency: p.Currency, At: p.ObservedAt})
	}
	return out, nil
}

// CreateAlert covers two engine paths: productID "" is a reminder the
// user asked for mid-conversation, anything else is a price drop on a
// watched product.
func (d *deviceStore) CreateAlert(ctx context.Context, productID string, message string, oldPrice, newPrice float64) error {
	if productID == "" {
		return d.createReminder(ctx, message)
	}
	return d.createPriceDrop(ctx, productID, message, oldPrice, newPrice)
}

var reminderMsgRe = regexp.MustCompile(`^Reminder \(([^)]+)\): `)

func (d *deviceStore) createReminder(ctx context.Context, message string) error {
	phrase := ""
	if m := reminderMsgRe.FindStringSubmatch(message); m != nil {
		phrase = m[1]
	}
	due := parseDuePhrase(phrase, time.Now())

	alert := model.Alert{
		ID:        uuid.New(),
		DeviceID:  d.deviceId,
		Kind:      string(entity.AlertKindReminder),
		Title:     "Reminder",
		Message:   message,
		DueAt:     &due,
		CreatedAt: time.Now(),
	}
	return d.alertRepo.CreateAlert(ctx, &alert)
}

// createPriceDrop routes through the event bus so the dispatch worker
// applies the registry template, mute list and channel fan-out. Without
// a bus the row is written directly and only shows up in the inbox.
func (d *deviceStore) createPriceDrop(ctx context.Context, productID string, message string, oldPrice, newPrice float64) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return err
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.WatchlistRepository().FindOne(ctx,
		specification.ByID{ID: pid},
		specification.OwnedByDevice{DeviceID: d.deviceId},
	)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product %s is not on this device's watchlist", productID)
	}

	if d.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypePriceDrop,
			Data: map[string]interface{}{
				"device_id":  d.deviceId.String(),
				"product_id": productID,
				"title":      product.Title,
				"url":        product.URL,
				"old_price":  oldPrice,
				"new_price":  newPrice,
				"message":    message,
			},
			OccurredAt: time.Now(),
		}
		return d.eventPublisher.Publish(ctx, evt)
	}

	meta, _ := json.Marshal(map[string]interface{}{"url": product.URL})
	alert := model.Alert{
		ID:        uuid.New(),
		DeviceID:  d.deviceId,
		ProductID: &pid,
		Kind:      string(entity.AlertKindPriceDrop),
		Title:     product.Title,
		Message:   message,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		Metadata:  datatypes.JSON(meta),
		CreatedAt: time.Now(),
	}
	return d.alertRepo.CreateAlert(ctx, &alert)
}

var (
	relativeDueRe = regexp.MustCompile(`(?i)\bin\s+(\d{1,3})\s*(minutes?|mins?|hours?|hrs?|h|m)\b`)
	clockDueRe    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

// parseDuePhrase places a heuristic time phrase on the clock relative
// to now. Phrases it cannot place land one hour out; the stored message
// keeps the user's own words either way, so a rough guess still reads
// right in the inbox.
func parseDuePhrase(phrase string, now time.Time) time.Time {
	lower := strings.ToLower(phrase)

	if m := relativeDueRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "h") {
			return now.Add(time.Duration(n) * time.Hour)
		}
		return now.Add(time.Duration(n) * time.Minute)
	}

	day := now
	tomorrow := strings.Contains(lower, "tomorrow")
	if tomorrow {
		day = now.AddDate(0, 0, 1)
	}

	if m := clockDueRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		due := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if tomorrow || due.After(now) {
			return due
		}
		// Bare hours already past roll forward: "at 7" said at noon
		// means 19:00, said at 9pm means 7am tomorrow.
		if m[3] == "" && hour < 12 {
			due = due.Add(12 * time.Hour)
		}
		if !due.After(now) {
			due = due.AddDate(0, 0, 1)
		}
		return due
	}

	switch {
	case strings.Contains(lower, "tonight"), strings.Contains(lower, "this evening"):
		due := time.Date(now.Year(), now.Month(), now.Day(), 20, 0, 0, 0, now.Location())
		if due.After(now) {
			return due
		}
	case strings.Contains(lower, "this afternoon"):
		due := time.Date(now.Year(), now.Month(), now.Day(), 15, 0, 0, 0, now.Location())
		if due.After(now) {
			return due
		}
	case tomorrow:
		return time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, now.Location())
	}

	return now.Add(time.Hour)
}
