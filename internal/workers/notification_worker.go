package workers

import (
	"context"
	"time"

	"campaignhub_backend/internal/logger"
)

// NotificationCleaner - то, что нужно воркеру от сервиса уведомлений
type NotificationCleaner interface {
	CleanOldNotifications(ctx context.Context, retentionDays int) (int64, error)
}

type NotificationWorker struct {
	cleaner       NotificationCleaner
	interval      time.Duration
	retentionDays int
}

func NewNotificationWorker(cleaner NotificationCleaner, interval time.Duration, retentionDays int) *NotificationWorker {
	return &NotificationWorker{
		cleaner:       cleaner,
		interval:      interval,
		retentionDays: retentionDays,
	}
}

// Start запускает фоновую очистку прочитанных уведомлений
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *NotificationWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход очистки
func (w *NotificationWorker) RunOnce(ctx context.Context) int64 {
	deleted, err := w.cleaner.CleanOldNotifications(ctx, w.retentionDays)
	logger.WorkerLog("notifications", "cleanup", err,
		"retention_days", w.retentionDays,
		"deleted", deleted,
	)
	if err != nil {
		return 0
	}
	return deleted
}
