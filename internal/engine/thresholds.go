package engine

import (
	"fmt"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// registry хранит явно заданные пороги и уровни.
// Значения по умолчанию в хранилище не попадают, пока их не запишут явно.
type registry struct {
	thresholds *models.OrderedMap[int64]
	levels     *models.OrderedMap[string]
}

func newRegistry() *registry {
	return &registry{
		thresholds: models.NewOrderedMap[int64](),
		levels:     models.NewOrderedMap[string](),
	}
}

// effective возвращает порог и уровень, по которым оценивается запись метрики.
func (r *registry) effective(key string) (int64, string) {
	threshold, ok := r.thresholds.Get(key)
	if !ok {
		threshold = models.DefaultThreshold
	}
	level, ok := r.levels.Get(key)
	if !ok {
		level = models.LevelInfo
	}
	return threshold, level
}

// materialize записывает значения по умолчанию для ключа, если явных нет.
func (r *registry) materialize(key string) {
	if !r.thresholds.Has(key) {
		r.thresholds.Set(key, models.DefaultThreshold)
	}
	if !r.levels.Has(key) {
		r.levels.Set(key, models.LevelInfo)
	}
}

// GetThreshold возвращает явно заданный порог метрики.
func (e *Engine) GetThreshold(key string) (int64, bool) {
	return e.registry.thresholds.Get(key)
}

// GetLevel возвращает явно заданный уровень подсветки метрики.
func (e *Engine) GetLevel(key string) (string, bool) {
	return e.registry.levels.Get(key)
}

// SetThreshold устанавливает порог и уровень для ключа, перезаписывая прежние значения.
// Пустой уровень означает INFO. Уровень сохраняется как есть, без проверки по списку.
//
// Отрицательный порог или пустой ключ отклоняются с ErrInvalidArgument,
// состояние при этом не меняется.
func (e *Engine) SetThreshold(key string, value int64, level string) error {
	if key == "" {
		return fmt.Errorf("set threshold: %w: empty key", ErrInvalidArgument)
	}
	if value < 0 {
		return fmt.Errorf("set threshold for %q: %w: threshold must be >= 0, got %d", key, ErrInvalidArgument, value)
	}
	if level == "" {
		level = models.LevelInfo
	}

	e.registry.thresholds.Set(key, value)
	e.registry.levels.Set(key, level)
	return nil
}

// GetAllThresholds возвращает копию всех явно заданных порогов.
func (e *Engine) GetAllThresholds() *models.OrderedMap[int64] {
	return e.registry.thresholds.Clone()
}

// GetAllLevels возвращает копию всех явно заданных уровней.
func (e *Engine) GetAllLevels() *models.OrderedMap[string] {
	return e.registry.levels.Clone()
}
