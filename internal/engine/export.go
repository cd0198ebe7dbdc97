package engine

import (
	"fmt"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// Export возвращает полный снимок состояния в виде документа экспорта.
func (e *Engine) Export() *models.StateExport {
	export := models.NewStateExport()
	export.Metrics = *e.metrics.Clone()
	export.Flags = *e.flags.Clone()
	export.Thresholds = *e.registry.thresholds.Clone()
	export.Levels = *e.registry.levels.Clone()
	export.Highlights = e.GetHighlights()
	export.History = *e.history.export()
	return export
}

// Restore заменяет всё состояние движка содержимым документа экспорта.
//
// Документ проверяется целиком до замены: отрицательный порог или история ключа,
// которого нет ни среди метрик, ни среди флагов, дают ErrInvalidArgument без изменений.
// Подписчики и хук при восстановлении не вызываются.
func (e *Engine) Restore(export *models.StateExport) error {
	if export == nil {
		return fmt.Errorf("restore: %w: nil export", ErrInvalidArgument)
	}
	if err := validateExport(export); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	reg := newRegistry()
	export.Thresholds.Range(func(key string, value int64) bool {
		reg.thresholds.Set(key, value)
		return true
	})
	export.Levels.Range(func(key string, level string) bool {
		reg.levels.Set(key, level)
		return true
	})

	history := newLedger(e.clock)
	history.restore(&export.History)

	highlights := make([]string, len(export.Highlights))
	copy(highlights, export.Highlights)

	e.metrics = export.Metrics.Clone()
	e.flags = export.Flags.Clone()
	e.registry = reg
	e.history = history
	e.highlights = highlights

	e.logger.Infow("State restored",
		"metrics", e.metrics.Len(),
		"flags", e.flags.Len(),
		"thresholds", reg.thresholds.Len(),
		"highlights", len(highlights),
	)
	return nil
}

func validateExport(export *models.StateExport) error {
	var err error

	export.Thresholds.Range(func(key string, value int64) bool {
		if key == "" || value < 0 {
			err = fmt.Errorf("%w: threshold %q = %d", ErrInvalidArgument, key, value)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	export.History.Range(func(key string, _ []string) bool {
		if !export.Metrics.Has(key) && !export.Flags.Has(key) {
			err = fmt.Errorf("%w: history for unknown key %q", ErrInvalidArgument, key)
			return false
		}
		return true
	})
	return err
}
