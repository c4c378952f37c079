// FILE: internal/service/watcher_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"tabsensei-be/internal/pkg/logger"
	"tabsensei-be/internal/repository"
	"tabsensei-be/pkg/events"
	pktNats "tabsensei-be/pkg/nats"
)

type IWatcherService interface {
	// Start blocks on a ticker until ctx is cancelled. Callers run it
	// in its own goroutine.
	Start(ctx context.Context)
}

type watcherService struct {
	watchlistService IWatchlistService
	alertRepo        repository.AlertRepository
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	interval         time.Duration
}

func NewWatcherService(
	watchlistService IWatchlistService,
	alertRepo repository.AlertRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	intervalMinutes int,
) IWatcherService {
	if intervalMinutes <= 0 {
		intervalMinutes = 30
	}
	return &watcherService{
		watchlistService: watchlistService,
		alertRepo:        alertRepo,
		eventPublisher:   eventPublisher,
		logger:           log,
		interval:         time.Duration(intervalMinutes) * time.Minute,
	}
}

func (s *watcherService) Start(ctx context.Context) {
	s.logger.Info("WatcherService", fmt.Sprintf("Watcher started, sweeping every %s", s.interval), nil)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First sweep right away so restarts don't delay due reminders by
	// a full interval.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("WatcherService", "Watcher stopped", nil)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *watcherService) sweep(ctx context.Context) {
	fired, err := s.watchlistService.CheckPrices(ctx)
	if err != nil {
		s.logger.Error("WatcherService", "Price sweep failed", map[string]interface{}{"error": err})
	} else if fired > 0 {
		s.logger.Info("WatcherService", "Price sweep raised alerts", map[string]interface{}{"count": fired})
	}

	s.deliverDueReminders(ctx)
}

// deliverDueReminders publishes REMINDER_DUE for every reminder whose
// time has passed, then clears due_at so it fires once. With the event
// bus down the rows stay due and the next sweep retries.
func (s *watcherService) deliverDueReminders(ctx context.Context) {
	if s.eventPublisher == nil {
		return
	}

	due, err := s.alertRepo.GetDueReminders(ctx, time.Now())
	if err != nil {
		s.logger.Error("WatcherService", "Loading due reminders failed", map[string]interface{}{"error": err})
		return
	}

	for _, reminder := range due {
		evt := events.BaseEvent{
			Type: events.TypeReminderDue,
			Data: map[string]interface{}{
				"device_id": reminder.DeviceID.String(),
				"alert_id":  reminder.ID.String(),
				"message":   reminder.Message,
				"due_at":    reminder.DueAt.Format(time.RFC3339),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Error("WatcherService", "Publishing REMINDER_DUE failed", map[string]interface{}{"error": err, "alert_id": reminder.ID})
			continue
		}
		if err := s.alertRepo.ClearDue(ctx, reminder.ID); err != nil {
			s.logger.Error("WatcherService", "Clearing due flag failed", map[string]interface{}{"error": err, "alert_id": reminder.ID})
		}
	}

	if len(due) > 0 {
		s.logger.Info("WatcherService", "Delivered due reminders", map[string]interface{}{"count": len(due)})
	}
}
