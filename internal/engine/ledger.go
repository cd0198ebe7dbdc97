package engine

import (
	"strings"
	"time"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// TimestampLayout задаёт формат временной метки записи истории (ISO-8601, UTC, микросекунды).
// Фиксированная ширина сохраняет лексикографический порядок.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// EntrySeparator разделяет временную метку и значение в записи истории и в подсветке.
const EntrySeparator = " → "

// ledger хранит историю значений по ключам. Записи только добавляются.
type ledger struct {
	clock   func() time.Time
	last    time.Time
	entries *models.OrderedMap[[]string]
}

func newLedger(clock func() time.Time) *ledger {
	return &ledger{
		clock:   clock,
		entries: models.NewOrderedMap[[]string](),
	}
}

// record добавляет запись для ключа. Метка времени не может уйти назад
// относительно предыдущей записи, даже если часы процесса откатились.
func (l *ledger) record(key, rendered string) {
	now := l.clock().UTC()
	if now.Before(l.last) {
		now = l.last
	}
	l.last = now

	entries, _ := l.entries.Get(key)
	l.entries.Set(key, append(entries, now.Format(TimestampLayout)+EntrySeparator+rendered))
}

func (l *ledger) get(key string) []string {
	entries, ok := l.entries.Get(key)
	if !ok {
		return []string{}
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}

func (l *ledger) export() *models.OrderedMap[[]string] {
	out := models.NewOrderedMap[[]string]()
	l.entries.Range(func(key string, entries []string) bool {
		out.Set(key, l.get(key))
		return true
	})
	return out
}

// restore заменяет журнал записями из экспорта и продвигает last
// до самой поздней разобранной метки, чтобы новые записи шли после восстановленных.
func (l *ledger) restore(history *models.OrderedMap[[]string]) {
	l.entries = models.NewOrderedMap[[]string]()
	l.last = time.Time{}

	history.Range(func(key string, entries []string) bool {
		copied := make([]string, len(entries))
		copy(copied, entries)
		l.entries.Set(key, copied)

		for _, entry := range entries {
			ts, _, found := strings.Cut(entry, EntrySeparator)
			if !found {
				continue
			}
			if t, err := time.Parse(TimestampLayout, ts); err == nil && t.After(l.last) {
				l.last = t
			}
		}
		return true
	})
}
