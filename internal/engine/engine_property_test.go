package engine

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/levinOo/go-state-mirror/internal/models"
	"pgregory.net/rapid"
)

// TestPropertyLastWriteWinsAndHistoryCounts проверяет, что после серии записей
// метрика равна последнему значению, а история содержит ровно n записей в порядке записи.
func TestPropertyLastWriteWinsAndHistoryCounts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine()
		key := rapid.StringMatching(`[a-z_]{1,12}`).Draw(rt, "key")
		values := rapid.SliceOfN(rapid.Int64(), 1, 30).Draw(rt, "values")

		for _, v := range values {
			err := e.UpdateMetric(key, v)
			if err != nil {
				rt.Fatalf("UpdateMetric(%q, %d): %v", key, v, err)
			}
		}

		got, ok := e.GetMetric(key)
		if !ok || got != values[len(values)-1] {
			rt.Fatalf("GetMetric = %d, %v; want %d", got, ok, values[len(values)-1])
		}

		history := e.GetHistory(key)
		if len(history) != len(values) {
			rt.Fatalf("history length = %d, want %d", len(history), len(values))
		}
		for i, v := range values {
			if !strings.HasSuffix(history[i], EntrySeparator+strconv.FormatInt(v, 10)) {
				rt.Fatalf("history[%d] = %q, want value %d", i, history[i], v)
			}
		}
	})
}

// TestPropertyHighlightIffStrictlyAboveThreshold проверяет, что подсветка и уведомление
// появляются ровно тогда, когда значение строго больше эффективного порога.
func TestPropertyHighlightIffStrictlyAboveThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		notified := 0
		e := newTestEngine(WithSink(SinkFunc(func(models.HighlightEvent) { notified++ })))

		threshold := models.DefaultThreshold
		if rapid.Bool().Draw(rt, "explicit") {
			threshold = rapid.Int64Range(0, 5000).Draw(rt, "threshold")
			level := rapid.SampledFrom([]string{models.LevelInfo, models.LevelWarning, models.LevelCritical}).Draw(rt, "level")
			if err := e.SetThreshold("m", threshold, level); err != nil {
				rt.Fatalf("SetThreshold: %v", err)
			}
		}

		value := rapid.Int64Range(-10, 6000).Draw(rt, "value")
		if err := e.UpdateMetric("m", value); err != nil {
			rt.Fatalf("UpdateMetric: %v", err)
		}

		want := 0
		if value > threshold {
			want = 1
		}
		if got := len(e.GetHighlights()); got != want {
			rt.Fatalf("highlights = %d, want %d (value %d, threshold %d)", got, want, value, threshold)
		}
		if notified != want {
			rt.Fatalf("notifications = %d, want %d", notified, want)
		}
	})
}

// TestPropertyNegativeThresholdIsNoOp проверяет атомарность отказа при отрицательном пороге.
func TestPropertyNegativeThresholdIsNoOp(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine()
		hasPrior := rapid.Bool().Draw(rt, "prior")
		prior := rapid.Int64Range(0, 1<<40).Draw(rt, "prior_value")
		if hasPrior {
			_ = e.SetThreshold("k", prior, models.LevelCritical)
		}

		bad := rapid.Int64Range(-1<<40, -1).Draw(rt, "bad")
		if err := e.SetThreshold("k", bad, models.LevelWarning); err == nil {
			rt.Fatalf("SetThreshold(%d) succeeded", bad)
		}

		v, ok := e.GetThreshold("k")
		l, lok := e.GetLevel("k")
		if ok != hasPrior || lok != hasPrior {
			rt.Fatalf("presence changed: threshold %v, level %v, prior %v", ok, lok, hasPrior)
		}
		if hasPrior && (v != prior || l != models.LevelCritical) {
			rt.Fatalf("threshold/level = %d/%q, want %d/%q", v, l, prior, models.LevelCritical)
		}
	})
}

// TestPropertySnapshotAddsOneEntryPerKey проверяет, что снимок добавляет по одной записи
// для каждого известного ключа и не меняет значения.
func TestPropertySnapshotAddsOneEntryPerKey(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine()

		metricKeys := rapid.SliceOfNDistinct(rapid.StringMatching(`m_[a-z]{1,6}`), 0, 8, rapid.ID[string]).Draw(rt, "metrics")
		flagKeys := rapid.SliceOfNDistinct(rapid.StringMatching(`f_[a-z]{1,6}`), 0, 8, rapid.ID[string]).Draw(rt, "flags")

		for _, k := range metricKeys {
			_ = e.UpdateMetric(k, rapid.Int64Range(0, 2000).Draw(rt, "value"))
		}
		for _, k := range flagKeys {
			_ = e.ToggleFlag(k, rapid.Bool().Draw(rt, "flag"))
		}

		metricsBefore := e.GetAllMetrics()
		flagsBefore := e.GetAllFlags()
		before := make(map[string]int)
		for _, k := range append(append([]string{}, metricKeys...), flagKeys...) {
			before[k] = len(e.GetHistory(k))
		}

		e.SnapshotState()

		for k, n := range before {
			if got := len(e.GetHistory(k)); got != n+1 {
				rt.Fatalf("history(%s) = %d entries, want %d", k, got, n+1)
			}
		}
		metricsBefore.Range(func(k string, v int64) bool {
			if got, _ := e.GetMetric(k); got != v {
				rt.Fatalf("metric %s changed from %d to %d", k, v, got)
			}
			return true
		})
		flagsBefore.Range(func(k string, v bool) bool {
			if got, _ := e.GetFlag(k); got != v {
				rt.Fatalf("flag %s changed from %v to %v", k, v, got)
			}
			return true
		})
	})
}

// TestPropertyHistoryTimestampsSorted проверяет, что метки времени в истории
// не убывают даже при произвольно скачущих часах.
func TestPropertyHistoryTimestampsSorted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		offsets := rapid.SliceOfN(rapid.Int64Range(-3600, 3600), 2, 20).Draw(rt, "offsets")
		i := 0
		e := New(WithClock(func() time.Time {
			ts := base.Add(time.Duration(offsets[i%len(offsets)]) * time.Second)
			i++
			return ts
		}))

		for range offsets {
			_ = e.UpdateMetric("k", 1)
		}

		history := e.GetHistory("k")
		for j := 1; j < len(history); j++ {
			prev, _, _ := strings.Cut(history[j-1], EntrySeparator)
			cur, _, _ := strings.Cut(history[j], EntrySeparator)
			if cur < prev {
				rt.Fatalf("timestamp went back: %s after %s", cur, prev)
			}
		}
	})
}
