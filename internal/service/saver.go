package service

import (
	"context"
	"time"

	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/levinOo/go-state-mirror/internal/repository"
	"go.uber.org/zap"
)

// Exporter отдаёт согласованный снимок состояния.
type Exporter interface {
	Export() *models.StateExport
}

// PeriodicSaver управляет автоматическим периодическим сохранением состояния.
// Запускает фоновую горутину, которая сохраняет снимок через заданные интервалы времени.
type PeriodicSaver struct {
	source   Exporter
	store    repository.Storage
	interval time.Duration
	logger   *zap.SugaredLogger
	stopCh   chan struct{}
	done     chan struct{}
}

// NewPeriodicSaver создает PeriodicSaver. Сохранение необходимо запустить методом Start
// и остановить методом Stop, когда оно больше не требуется.
func NewPeriodicSaver(source Exporter, store repository.Storage, interval time.Duration, logger *zap.SugaredLogger) *PeriodicSaver {
	return &PeriodicSaver{
		source:   source,
		store:    store,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SaveNow сохраняет текущий снимок немедленно.
func (ps *PeriodicSaver) SaveNow(ctx context.Context) error {
	return ps.store.Save(ctx, ps.source.Export())
}

// Start запускает операцию периодического сохранения в фоновой горутине.
func (ps *PeriodicSaver) Start() {
	go func() {
		defer close(ps.done)
		ticker := time.NewTicker(ps.interval)
		defer ticker.Stop()

		ps.logger.Infow("Starting periodic save", "interval", ps.interval)

		for {
			select {
			case <-ticker.C:
				ps.logger.Debugw("Periodic save triggered")
				ctx, cancel := context.WithTimeout(context.Background(), ps.interval)
				if err := ps.SaveNow(ctx); err != nil {
					ps.logger.Errorw("Failed to save state", "error", err)
				} else {
					ps.logger.Debugw("State saved successfully")
				}
				cancel()
			case <-ps.stopCh:
				ps.logger.Debugw("Stopping periodic save")
				return
			}
		}
	}()
}

// Stop корректно останавливает периодическое сохранение и ожидает
// завершения фоновой горутины.
func (ps *PeriodicSaver) Stop() {
	if ps.stopCh != nil {
		close(ps.stopCh)
		<-ps.done
	}
}
