package worker

import (
	"context"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

// DeadlineWatcher периодически пересчитывает отображаемые статусы
// и пишет в лог сводку по истекающим и просроченным задачам.
// Просроченность - вычисляемое представление, поэтому воркер
// НИКОГДА не пишет в хранилище
type DeadlineWatcher struct {
	repo     service.TodoRepository
	interval time.Duration
}

func NewDeadlineWatcher(repo service.TodoRepository, interval time.Duration) *DeadlineWatcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &DeadlineWatcher{
		repo:     repo,
		interval: interval,
	}
}

func (w *DeadlineWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка дедлайнов", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *DeadlineWatcher) Check(ctx context.Context) {
	start := time.Now()

	todos, err := w.repo.GetAll(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	now := time.Now()
	expiringSoon := 0
	expired := 0

	for _, t := range todos {
		switch t.DisplayStatusAt(now) {
		case todo.DisplayExpiringSoon:
			expiringSoon++
		case todo.DisplayExpired:
			expired++
		}
	}

	if expiringSoon > 0 {
		logger.Warn("Worker: Есть задачи с истекающим дедлайном",
			zap.Int("expiring_soon", expiringSoon))
	}

	logger.Info(
		"Worker: Завершение проверки дедлайнов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(todos)),
		zap.Int("expiring_soon", expiringSoon),
		zap.Int("expired", expired),
	)
}
