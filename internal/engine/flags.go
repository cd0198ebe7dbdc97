package engine

import (
	"fmt"
	"strconv"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// GetFlag возвращает текущее значение флага.
func (e *Engine) GetFlag(key string) (bool, bool) {
	return e.flags.Get(key)
}

// ToggleFlag записывает значение флага и добавляет запись в историю.
// Флаги не участвуют в проверке порогов.
func (e *Engine) ToggleFlag(key string, value bool) error {
	if key == "" {
		return fmt.Errorf("toggle flag: %w: empty key", ErrInvalidArgument)
	}

	e.flags.Set(key, value)
	e.history.record(key, strconv.FormatBool(value))
	return nil
}

// GetAllFlags возвращает копию всех флагов в порядке первой записи.
func (e *Engine) GetAllFlags() *models.OrderedMap[bool] {
	return e.flags.Clone()
}
