// Package models содержит структуры данных, описывающие основные сущности предметной области.
// Пакет не содержит бизнес-логику и используется для передачи данных между слоями приложения.
package models

// Уровни подсветки. Движок не ограничивает уровень этим списком,
// но клиенты должны передавать одно из этих значений.
const (
	// LevelInfo используется по умолчанию.
	LevelInfo = "INFO"

	LevelWarning  = "WARNING"
	LevelCritical = "CRITICAL"
)

// DefaultThreshold используется, когда для метрики порог не задан явно.
const DefaultThreshold int64 = 1000

// HighlightEvent содержит структурированное уведомление о пересечении порога,
// которое получают все подписчики движка.
type HighlightEvent struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
	Level string `json:"level"`
}

// StateExport описывает документ полного экспорта состояния движка.
// Порядок ключей во всех картах совпадает с порядком первой записи.
type StateExport struct {
	// Metrics содержит текущие значения целочисленных метрик.
	Metrics OrderedMap[int64] `json:"metrics"`

	// Flags содержит текущие значения булевых флагов.
	Flags OrderedMap[bool] `json:"flags"`

	// Thresholds содержит только явно заданные пороги.
	Thresholds OrderedMap[int64] `json:"thresholds"`

	// Levels содержит уровни подсветки для явно заданных порогов.
	Levels OrderedMap[string] `json:"levels"`

	// Highlights содержит глобальный журнал подсветок в порядке появления.
	Highlights []string `json:"highlights"`

	// History хранит историю значений по ключу, строки вида "<timestamp> → <value>".
	History OrderedMap[[]string] `json:"history"`
}

// NewStateExport создаёт пустой документ экспорта с инициализированными полями.
func NewStateExport() *StateExport {
	return &StateExport{
		Highlights: []string{},
	}
}
