package engine

import (
	"fmt"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// Sink получает структурированные уведомления о подсветках.
// Доставка синхронная, в порядке регистрации подписчиков и в порядке подсветок.
type Sink interface {
	Notify(event models.HighlightEvent)
}

// SinkFunc позволяет использовать функцию как Sink.
type SinkFunc func(event models.HighlightEvent)

// Notify вызывает f(event).
func (f SinkFunc) Notify(event models.HighlightEvent) {
	f(event)
}

// HighlightHook вызывается после добавления подсветки и уведомления подписчиков.
// Ошибка или паника хука не откатывает состояние.
type HighlightHook func(key string, value int64, level string) error

func noopHook(string, int64, string) error { return nil }

// RegisterSink добавляет подписчика событий подсветки.
func (e *Engine) RegisterSink(s Sink) {
	if s == nil {
		return
	}
	e.sinks = append(e.sinks, s)
}

// GetHighlights возвращает копию журнала подсветок.
func (e *Engine) GetHighlights() []string {
	out := make([]string, len(e.highlights))
	copy(out, e.highlights)
	return out
}

// FormatHighlight возвращает строку подсветки в формате журнала.
func FormatHighlight(key string, value int64, level string) string {
	return fmt.Sprintf("[%s] %s crossed threshold%s%d", level, key, EntrySeparator, value)
}

func (e *Engine) emitHighlight(key string, value int64, level string) error {
	e.highlights = append(e.highlights, FormatHighlight(key, value, level))
	e.logger.Debugw("Highlight emitted", "key", key, "value", value, "level", level)

	event := models.HighlightEvent{Key: key, Value: value, Level: level}
	for _, s := range e.sinks {
		e.notify(s, event)
	}

	if err := e.runHook(key, value, level); err != nil {
		e.logger.Warnw("Highlight hook failed", "key", key, "value", value, "level", level, "error", err)
		return &HookError{Key: key, Value: value, Level: level, Err: err}
	}
	return nil
}

// notify доставляет событие одному подписчику; паника подписчика логируется
// и не мешает остальным.
func (e *Engine) notify(s Sink, event models.HighlightEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("Highlight sink panicked", "key", event.Key, "panic", r)
		}
	}()
	s.Notify(event)
}

func (e *Engine) runHook(key string, value int64, level string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.hook(key, value, level)
}
