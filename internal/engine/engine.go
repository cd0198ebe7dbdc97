// Package engine реализует детерминированный движок состояния: именованные целочисленные
// метрики и булевы флаги, журнал истории значений по ключам и подсветки при пересечении порога.
//
// Движок однопоточный и не содержит блокировок: вызывающая сторона сериализует записи,
// например одним мьютексом на уровне транспорта. Глобального состояния нет, каждый
// экземпляр Engine независим.
//
// Пример:
//
//	e := engine.New(engine.WithHook(func(key string, value int64, level string) error {
//		log.Printf("%s: %s = %d", level, key, value)
//		return nil
//	}))
//	_ = e.SetThreshold("score", 100, models.LevelWarning)
//	_ = e.UpdateMetric("score", 150) // подсветка "[WARNING] score crossed threshold → 150"
package engine

import (
	"time"

	"github.com/levinOo/go-state-mirror/internal/models"
	"go.uber.org/zap"
)

// Engine хранит всё состояние одного экземпляра.
type Engine struct {
	metrics    *models.OrderedMap[int64]
	flags      *models.OrderedMap[bool]
	registry   *registry
	history    *ledger
	highlights []string

	sinks  []Sink
	hook   HighlightHook
	clock  func() time.Time
	logger *zap.SugaredLogger
}

// Option настраивает Engine при создании.
type Option func(*Engine)

// WithClock задаёт источник времени для записей истории.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithHook задаёт хук, вызываемый после каждой подсветки.
func WithHook(hook HighlightHook) Option {
	return func(e *Engine) {
		if hook != nil {
			e.hook = hook
		}
	}
}

// WithSink регистрирует подписчиков событий подсветки.
func WithSink(sinks ...Sink) Option {
	return func(e *Engine) {
		for _, s := range sinks {
			e.RegisterSink(s)
		}
	}
}

// WithLogger задаёт логгер движка.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New создаёт пустой движок.
func New(opts ...Option) *Engine {
	e := &Engine{
		metrics:    models.NewOrderedMap[int64](),
		flags:      models.NewOrderedMap[bool](),
		registry:   newRegistry(),
		highlights: []string{},
		hook:       noopHook,
		clock:      time.Now,
		logger:     zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = newLedger(e.clock)
	return e
}

// GetHistory возвращает записи истории ключа в порядке добавления
// или пустой срез, если ключ не встречался.
func (e *Engine) GetHistory(key string) []string {
	return e.history.get(key)
}
