package engine

import (
	"fmt"
	"strconv"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// GetMetric возвращает текущее значение метрики. Значение по умолчанию не подставляется.
func (e *Engine) GetMetric(key string) (int64, bool) {
	return e.metrics.Get(key)
}

// UpdateMetric записывает значение метрики, добавляет запись в историю
// и проверяет порог. Метрика создаётся при первой записи.
//
// Если значение строго больше эффективного порога, добавляется подсветка,
// уведомляются подписчики и вызывается хук. Ошибка хука возвращается как *HookError,
// но запись при этом уже применена.
func (e *Engine) UpdateMetric(key string, value int64) error {
	if key == "" {
		return fmt.Errorf("update metric: %w: empty key", ErrInvalidArgument)
	}

	e.metrics.Set(key, value)
	e.history.record(key, strconv.FormatInt(value, 10))

	return e.checkHighlight(key, value)
}

// GetAllMetrics возвращает копию всех метрик в порядке первой записи.
func (e *Engine) GetAllMetrics() *models.OrderedMap[int64] {
	return e.metrics.Clone()
}

func (e *Engine) checkHighlight(key string, value int64) error {
	threshold, level := e.registry.effective(key)
	if value <= threshold {
		return nil
	}
	return e.emitHighlight(key, value, level)
}
