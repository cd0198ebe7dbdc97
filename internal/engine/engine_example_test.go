package engine_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// Example_updateMetric демонстрирует запись метрики и чтение её истории.
func Example_updateMetric() {
	e := engine.New(engine.WithClock(fixedClock))

	_ = e.UpdateMetric("level", 9)
	_ = e.UpdateMetric("level", 10)

	value, _ := e.GetMetric("level")
	fmt.Println("level:", value)
	for _, entry := range e.GetHistory("level") {
		fmt.Println(entry)
	}
	// Output:
	// level: 10
	// 2025-06-01T12:00:00.000000Z → 9
	// 2025-06-01T12:00:00.000000Z → 10
}

// Example_defaultThreshold демонстрирует порог по умолчанию 1000/INFO.
func Example_defaultThreshold() {
	e := engine.New()

	_ = e.UpdateMetric("score", 1000)
	_ = e.UpdateMetric("score", 1001)

	fmt.Println(e.GetHighlights())
	// Output: [[INFO] score crossed threshold → 1001]
}

// Example_customThreshold демонстрирует явный порог и уведомление подписчика.
func Example_customThreshold() {
	e := engine.New(engine.WithSink(engine.SinkFunc(func(ev models.HighlightEvent) {
		fmt.Printf("event: %s=%d (%s)\n", ev.Key, ev.Value, ev.Level)
	})))

	_ = e.SetThreshold("xp", 2000, models.LevelWarning)
	_ = e.UpdateMetric("xp", 2500)

	fmt.Println(e.GetHighlights()[0])
	// Output:
	// event: xp=2500 (WARNING)
	// [WARNING] xp crossed threshold → 2500
}

// Example_negativeThreshold демонстрирует отказ при отрицательном пороге.
func Example_negativeThreshold() {
	e := engine.New()

	err := e.SetThreshold("score", -1, models.LevelInfo)
	fmt.Println(errors.Is(err, engine.ErrInvalidArgument))

	_, ok := e.GetThreshold("score")
	fmt.Println(ok)
	// Output:
	// true
	// false
}

// Example_batchUpdate демонстрирует пакетную запись с материализацией порога.
func Example_batchUpdate() {
	e := engine.New()

	updates := models.NewOrderedMap[int64]()
	updates.Set("score", 1500)

	applied, err := e.BatchUpdateMetrics(updates)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	threshold, _ := e.GetThreshold("score")
	fmt.Println(applied, threshold)
	fmt.Println(e.GetHighlights())
	// Output:
	// [score] 1000
	// [[INFO] score crossed threshold → 1500]
}

// Example_hookFailure демонстрирует, что ошибка хука не откатывает запись.
func Example_hookFailure() {
	e := engine.New(engine.WithHook(func(key string, value int64, level string) error {
		return errors.New("notification service unavailable")
	}))

	err := e.UpdateMetric("score", 5000)
	fmt.Println(errors.Is(err, engine.ErrHookFailure))

	value, _ := e.GetMetric("score")
	fmt.Println(value, len(e.GetHighlights()))
	// Output:
	// true
	// 5000 1
}

// Example_snapshot демонстрирует снимок состояния в историю.
func Example_snapshot() {
	e := engine.New()

	_ = e.UpdateMetric("score", 10)
	_ = e.ToggleFlag("premium_user", true)
	e.SnapshotState()

	fmt.Println(len(e.GetHistory("score")), len(e.GetHistory("premium_user")))
	// Output: 2 2
}
