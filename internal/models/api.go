package models

// ThresholdInfo описывает явно заданные порог и уровень метрики.
// Отсутствующее значение передаётся как nil.
type ThresholdInfo struct {
	Key       string  `json:"key"`
	Threshold *int64  `json:"threshold,omitempty"`
	Level     *string `json:"level,omitempty"`
}

// ThresholdRequest описывает тело запроса на установку порога.
type ThresholdRequest struct {
	Value *int64 `json:"value"`
	Level string `json:"level,omitempty"`
}

// MetricValue содержит значение одной метрики.
type MetricValue struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

// FlagValue содержит значение одного флага.
type FlagValue struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// WriteResult описывает ответ на операцию записи.
// HookError заполняется, если запись применена, но хук подсветки завершился ошибкой.
type WriteResult struct {
	Status    string   `json:"status"`
	Applied   []string `json:"applied,omitempty"`
	Error     string   `json:"error,omitempty"`
	HookError string   `json:"hook_error,omitempty"`
}
