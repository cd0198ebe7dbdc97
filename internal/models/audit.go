package models

//go:generate easyjson -all audit.go

// AuditRecord представляет событие аудита о пересечении порога метрикой.
// Записывается подписчиками аудита в файл или отправляется на внешний сервис.
type AuditRecord struct {
	// TS содержит временную метку события в формате Unix timestamp.
	TS int64 `json:"ts"`

	// Key содержит имя метрики.
	Key string `json:"key"`

	// Value содержит значение, вызвавшее подсветку.
	Value int64 `json:"value"`

	// Level содержит уровень подсветки.
	Level string `json:"level"`

	// Message содержит отрисованную строку подсветки.
	Message string `json:"message,omitempty"`
}

// AuditLog хранит содержимое файла аудита.
type AuditLog struct {
	Events []AuditRecord `json:"events"`
}
