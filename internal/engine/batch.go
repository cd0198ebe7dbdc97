package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// BatchUpdateMetrics применяет записи метрик по одной в порядке обхода updates.
// Перед каждой записью для ключа материализуется порог по умолчанию (1000/INFO),
// если явного порога нет, чтобы после первого пакетного касания GetThreshold его видел.
//
// Некорректная запись останавливает пакет: возвращается *BatchError со списком
// уже применённых ключей, отката нет. Ошибки хука пакет не останавливают,
// они объединяются и возвращаются после обработки всех записей.
func (e *Engine) BatchUpdateMetrics(updates *models.OrderedMap[int64]) ([]string, error) {
	applied := make([]string, 0, updates.Len())
	var batchErr error
	var hookErrs []error

	updates.Range(func(key string, value int64) bool {
		if key == "" {
			batchErr = newBatchError(applied, key, fmt.Errorf("%w: empty key", ErrInvalidArgument))
			return false
		}

		e.registry.materialize(key)

		err := e.UpdateMetric(key, value)
		if err != nil {
			var hookErr *HookError
			if !errors.As(err, &hookErr) {
				batchErr = newBatchError(applied, key, err)
				return false
			}
			hookErrs = append(hookErrs, err)
		}

		applied = append(applied, key)
		return true
	})

	return applied, errors.Join(append([]error{batchErr}, hookErrs...)...)
}

// BatchToggleFlags применяет записи флагов по одной в порядке обхода updates.
// Правило остановки то же, что у BatchUpdateMetrics.
func (e *Engine) BatchToggleFlags(updates *models.OrderedMap[bool]) ([]string, error) {
	applied := make([]string, 0, updates.Len())
	var batchErr error

	updates.Range(func(key string, value bool) bool {
		if err := e.ToggleFlag(key, value); err != nil {
			batchErr = newBatchError(applied, key, err)
			return false
		}
		applied = append(applied, key)
		return true
	})

	return applied, batchErr
}

// SnapshotState добавляет в историю текущее значение каждой метрики,
// затем каждого флага. Сами значения не меняются.
// Ключ, который одновременно является метрикой и флагом, получает две записи:
// сначала значение метрики, затем значение флага.
func (e *Engine) SnapshotState() {
	e.metrics.Range(func(key string, value int64) bool {
		e.history.record(key, strconv.FormatInt(value, 10))
		return true
	})
	e.flags.Range(func(key string, value bool) bool {
		e.history.record(key, strconv.FormatBool(value))
		return true
	})
	e.logger.Debugw("State snapshot recorded", "metrics", e.metrics.Len(), "flags", e.flags.Len())
}

func newBatchError(applied []string, key string, err error) error {
	done := make([]string, len(applied))
	copy(done, applied)
	return &BatchError{Applied: done, Key: key, Err: err}
}
