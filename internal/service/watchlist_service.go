// FILE: internal/service/watchlist_service.go
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository"
	"tabsensei-be/internal/repository/specification"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/events"
	pktNats "tabsensei-be/pkg/nats"

	"github.com/google/uuid"
)

type IWatchlistService interface {
	Watch(ctx context.Context, deviceId uuid.UUID, req *dto.WatchProductRequest) (*dto.WatchProductResponse, error)
	List(ctx context.Context, deviceId uuid.UUID) ([]*dto.WatchedProductItem, error)
	Unwatch(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) error
	RecordPrice(ctx context.Context, deviceId uuid.UUID, productId uuid.UUID, req *dto.RecordPriceRequest) (*dto.RecordPriceResponse, error)
	// History returns the recorded points of the last `days` days plus
	// trend stats; days <= 0 falls back to the configured window.
	History(ctx context.Context, deviceId uuid.UUID, productId uuid.UUID, days int) (*dto.PriceHistoryResponse, error)

	// CheckPrices sweeps every watched product's recorded history and
	// fires drop alerts the synchronous path missed (threshold or
	// target changed after the observation landed). Returns the number
	// of alerts raised.
	CheckPrices(ctx context.Context) (int, error)
}

type watchlistService struct {
	uowFactory     unitofwork.RepositoryFactory
	alertRepo      repository.AlertRepository
	eventPublisher *pktNats.Publisher
	watchCfg       config.WatchConfig
}

func NewWatchlistService(
	uowFactory unitofwork.RepositoryFactory,
	alertRepo repository.AlertRepository,
	eventPublisher *pktNats.Publisher,
	watchCfg config.WatchConfig,
) IWatchlistService {
	return &watchlistService{
		uowFactory:     uowFactory,
		alertRepo:      alertRepo,
		eventPublisher: eventPublisher,
		watchCfg:       watchCfg,
	}
}

// canonicalURL strips query string and fragment so the same product
// page matches across visits (tracking params vary per click). Must
// agree with tab.CanonicalURL, which the engine uses for the same
// match.
func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func (s *watchlistService) Watch(ctx context.Context, deviceId uuid.UUID, req *dto.WatchProductRequest) (*dto.WatchProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	canonical := canonicalURL(req.URL)

	// Re-watching the same URL updates the existing entry instead of
	// creating a duplicate.
	existing, err := uow.WatchlistRepository().FindOne(ctx,
		specification.ByURL{URL: canonical},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		now := time.Now()
		existing.Title = req.Title
		if req.TargetPrice != nil {
			existing.TargetPrice = req.TargetPrice
		}
		if req.ThresholdPct != nil {
			existing.ThresholdPct = *req.ThresholdPct
		}
		existing.UpdatedAt = &now
		if err := uow.WatchlistRepository().Update(ctx, existing); err != nil {
			return nil, err
		}
		return &dto.WatchProductResponse{Id: existing.Id}, nil
	}

	product := entity.WatchedProduct{
		Id:           uuid.New(),
		DeviceId:     deviceId,
		Title:        req.Title,
		URL:          canonical,
		Currency:     req.Currency,
		TargetPrice:  req.TargetPrice,
		ThresholdPct: s.defaultThreshold(ctx, deviceId, req.ThresholdPct),
		CreatedAt:    time.Now(),
	}

	if err := uow.WatchlistRepository().Create(ctx, &product); err != nil {
		return nil, err
	}

	// Seed history so the first later observation has a baseline.
	if req.InitialPrice != nil {
		point := entity.PricePoint{
			Id:         uuid.New(),
			ProductId:  product.Id,
			Amount:     *req.InitialPrice,
			Currency:   req.Currency,
			ObservedAt: time.Now(),
		}
		if err := uow.PricePointRepository().Create(ctx, &point); err != nil {
			return nil, err
		}
	}

	return &dto.WatchProductResponse{Id: product.Id}, nil
}

// defaultThreshold resolves the alert threshold: explicit request value,
// then the device preference, then the server default.
func (s *watchlistService) defaultThreshold(ctx context.Context, deviceId uuid.UUID, reqPct *float64) float64 {
	if reqPct != nil {
		return *reqPct
	}
	pref, err := s.alertRepo.GetPreference(ctx, deviceId)
	if err == nil && pref != nil && pref.DropThresholdPct > 0 {
		return pref.DropThresholdPct
	}
	if s.watchCfg.DropThresholdPct > 0 {
		return s.watchCfg.DropThresholdPct
	}
	return price.DefaultDropThreshold
}

func (s *watchlistService) List(ctx context.Context, deviceId uuid.UUID) ([]*dto.WatchedProductItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.WatchlistRepository().FindAll(ctx,
		specification.OwnedByDevice{DeviceID: deviceId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WatchedProductItem, 0, len(products))
	for _, p := range products {
		item := dto.WatchedProductItem{
			Id:           p.Id,
			Title:        p.Title,
			URL:          p.URL,
			Currency:     p.Currency,
			TargetPrice:  p.TargetPrice,
			ThresholdPct: p.ThresholdPct,
			CreatedAt:    p.CreatedAt,
		}
		latest, err := uow.PricePointRepository().LatestByProduct(ctx, p.Id)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			item.LatestPrice = &latest.Amount
			item.LatestAt = &latest.ObservedAt
		}
		items = append(items, &item)
	}

	return items, nil
}

func (s *watchlistService) Unwatch(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.WatchlistRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.WatchlistRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.PricePointRepository().DeleteByProductId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *watchlistService) RecordPrice(ctx context.Context, deviceId uuid.UUID, productId uuid.UUID, req *dto.RecordPriceRequest) (*dto.RecordPriceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.WatchlistRepository().FindOne(ctx,
		specification.ByID{ID: productId},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	previous, err := uow.PricePointRepository().LatestByProduct(ctx, productId)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = product.Currency
	}

	point := entity.PricePoint{
		Id:         uuid.New(),
		ProductId:  productId,
		Amount:     req.Amount,
		Currency:   currency,
		ObservedAt: time.Now(),
	}
	if err := uow.PricePointRepository().Create(ctx, &point); err != nil {
		return nil, err
	}

	res := dto.RecordPriceResponse{Id: point.Id}

	if previous == nil {
		return &res, nil
	}

	target := 0.0
	if product.TargetPrice != nil {
		target = *product.TargetPrice
	}

	fired, reason := price.DropAlert(previous.Amount, req.Amount, product.ThresholdPct, target)
	if !fired {
		return &res, nil
	}

	res.DropDetected = true
	res.AlertMessage = dropMessage(reason, product.Title, currency, previous.Amount, req.Amount)

	s.publishPriceDrop(ctx, product, previous.Amount, req.Amount, res.AlertMessage)

	return &res, nil
}

// dropMessage renders the human line for a fired drop check. reason is
// "target" (price reached the wished-for number) or "drop" (relative
// fall past the threshold).
func dropMessage(reason, title, currency string, oldPrice, newPrice float64) string {
	if reason == "target" {
		return fmt.Sprintf("%s hit your target price: %s %.2f (was %s %.2f)", title, currency, newPrice, currency, oldPrice)
	}
	pct := (oldPrice - newPrice) / oldPrice * 100
	return fmt.Sprintf("%s dropped %.0f%%: %s %.2f → %s %.2f", title, pct, currency, oldPrice, currency, newPrice)
}

func (s *watchlistService) publishPriceDrop(ctx context.Context, product *entity.WatchedProduct, oldPrice, newPrice float64, message string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypePriceDrop,
		Data: map[string]interface{}{
			"device_id":  product.DeviceId.String(),
			"product_id": product.Id.String(),
			"title":      product.Title,
			"url":        product.URL,
			"old_price":  oldPrice,
			"new_price":  newPrice,
			"message":    message,
		},
		OccurredAt: time.Now(),
	}
	// Delivery is auxiliary; the price point is already stored.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish PRICE_DROP event: %v\n", err)
	}
}

func (s *watchlistService) CheckPrices(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.WatchlistRepository().FindAll(ctx)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, product := range products {
		points, err := uow.PricePointRepository().FindAll(ctx,
			specification.ByProductID{ProductID: product.Id},
			specification.OrderBy{Field: "observed_at", Desc: true},
			specification.Pagination{Limit: 2, Offset: 0},
		)
		if err != nil {
			return fired, err
		}
		if len(points) < 2 {
			continue
		}
		latest, previous := points[0], points[1]

		target := 0.0
		if product.TargetPrice != nil {
			target = *product.TargetPrice
		}
		ok, reason := price.DropAlert(previous.Amount, latest.Amount, product.ThresholdPct, target)
		if !ok {
			continue
		}

		// Skip observations the synchronous record path already flagged.
		last, err := s.alertRepo.LastAlertForProduct(ctx, product.Id)
		if err != nil {
			return fired, err
		}
		if last != nil && !last.CreatedAt.Before(latest.ObservedAt) {
			continue
		}

		message := dropMessage(reason, product.Title, latest.Currency, previous.Amount, latest.Amount)
		s.publishPriceDrop(ctx, product, previous.Amount, latest.Amount, message)
		fired++
	}

	return fired, nil
}

func (s *watchlistService) History(ctx context.Context, deviceId uuid.UUID, productId uuid.UUID, days int) (*dto.PriceHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.WatchlistRepository().FindOne(ctx,
		specification.ByID{ID: productId},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if days <= 0 {
		days = s.watchCfg.HistoryDays
	}
	since := time.Now().AddDate(0, 0, -days)
	points, err := uow.PricePointRepository().FindAll(ctx,
		specification.ByProductID{ProductID: productId},
		specification.ObservedSince{Since: since},
		specification.OrderBy{Field: "observed_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := dto.PriceHistoryResponse{
		ProductId: productId,
		Points:    make([]dto.PricePointItem, 0, len(points)),
	}

	trendPoints := make([]price.Point, 0, len(points))
	for _, p := range points {
		res.Points = append(res.Points, dto.PricePointItem{
			Amount:     p.Amount,
			Currency:   p.Currency,
			ObservedAt: p.ObservedAt,
		})
		trendPoints = append(trendPoints, price.Point{
			Price:    p.Amount,
			Currency: p.Currency,
			At:       p.ObservedAt,
		})
	}

	trend := price.Analyze(trendPoints)
	if trend.Direction != "unknown" {
		res.Trend = &dto.PriceTrendInfo{
			Direction: trend.Direction,
			ChangePct: trend.ChangePct,
			Min:       trend.Min,
			Max:       trend.Max,
			Average:   trend.Avg,
		}
	}

	return &res, nil
}
