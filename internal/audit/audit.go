// Package audit реализует подписчиков событий подсветки.
// Использует паттерн Observer: Auditer регистрируется в движке как один Sink
// и рассылает каждое событие своим потребителям (файл, HTTP, лог).
package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/mailru/easyjson"
	"go.uber.org/zap"
)

// Consumer определяет интерфейс потребителя событий аудита.
// Реализации этого интерфейса обрабатывают события различными способами
// (запись в файл, отправка по HTTP и т.д.).
type Consumer interface {
	// Update обрабатывает событие аудита.
	Update(record models.AuditRecord) error
}

// Auditer координирует отправку событий аудита зарегистрированным потребителям.
// Реализует engine.Sink.
type Auditer struct {
	clients []Consumer
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewAuditer создаёт Auditer без потребителей.
func NewAuditer(logger *zap.SugaredLogger) *Auditer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Auditer{
		logger: logger,
		now:    time.Now,
	}
}

// RegisterClient добавляет нового потребителя в список получателей уведомлений.
func (a *Auditer) RegisterClient(c Consumer) {
	a.clients = append(a.clients, c)
}

// Len возвращает количество зарегистрированных потребителей.
func (a *Auditer) Len() int {
	return len(a.clients)
}

// Notify превращает событие подсветки в запись аудита и передаёт её всем потребителям.
// Ошибки потребителей логируются и не прерывают рассылку.
func (a *Auditer) Notify(event models.HighlightEvent) {
	record := models.AuditRecord{
		TS:      a.now().Unix(),
		Key:     event.Key,
		Value:   event.Value,
		Level:   event.Level,
		Message: engine.FormatHighlight(event.Key, event.Value, event.Level),
	}

	for _, client := range a.clients {
		if err := client.Update(record); err != nil {
			a.logger.Errorw("Audit consumer failed", "key", record.Key, "error", err)
		}
	}
}

// FileAuditer записывает события аудита в JSON-файл вида {"events": [...]}.
type FileAuditer struct {
	path string
}

// NewFileAuditer создаёт новый экземпляр FileAuditer для записи в указанный файл.
func NewFileAuditer(path string) *FileAuditer {
	return &FileAuditer{
		path: path,
	}
}

// Update добавляет событие в файл: читает существующие события, добавляет новое
// и перезаписывает файл. Отсутствующий или пустой файл начинается с пустого журнала.
// Если путь пустой, операция пропускается.
func (a *FileAuditer) Update(record models.AuditRecord) error {
	if a.path == "" {
		return nil
	}

	var log models.AuditLog
	data, err := os.ReadFile(a.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read audit file %s: %w", a.path, err)
	}

	if len(data) > 0 {
		if err := easyjson.Unmarshal(data, &log); err != nil {
			return fmt.Errorf("failed to decode audit file %s: %w", a.path, err)
		}
	}

	log.Events = append(log.Events, record)

	out, err := easyjson.Marshal(&log)
	if err != nil {
		return fmt.Errorf("failed to encode audit log: %w", err)
	}

	if err := os.WriteFile(a.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write audit file %s: %w", a.path, err)
	}
	return nil
}

// URLAuditer отправляет события аудита на внешний HTTP endpoint методом POST.
type URLAuditer struct {
	url    string
	client *resty.Client
}

// NewURLAuditer создаёт URLAuditer с ограничением времени запроса.
func NewURLAuditer(url string, timeout time.Duration) *URLAuditer {
	return &URLAuditer{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

// Update отправляет событие в формате JSON. Если URL пустой, операция пропускается.
// Ответ со статусом вне 2xx считается ошибкой.
func (a *URLAuditer) Update(record models.AuditRecord) error {
	if a.url == "" {
		return nil
	}

	body, err := easyjson.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	resp, err := a.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(a.url)
	if err != nil {
		return fmt.Errorf("audit POST request error: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("audit endpoint returned status %d", resp.StatusCode())
	}
	return nil
}

// LogAuditer пишет события аудита в структурированный лог.
type LogAuditer struct {
	logger *zap.SugaredLogger
}

// NewLogAuditer создаёт LogAuditer.
func NewLogAuditer(logger *zap.SugaredLogger) *LogAuditer {
	return &LogAuditer{logger: logger}
}

// Update пишет событие в лог с уровнем, соответствующим уровню подсветки.
func (a *LogAuditer) Update(record models.AuditRecord) error {
	fields := []any{"key", record.Key, "value", record.Value, "level", record.Level}
	switch record.Level {
	case models.LevelCritical:
		a.logger.Errorw("Metric crossed threshold", fields...)
	case models.LevelWarning:
		a.logger.Warnw("Metric crossed threshold", fields...)
	default:
		a.logger.Infow("Metric crossed threshold", fields...)
	}
	return nil
}

// NewFromConfig собирает Auditer из путей конфигурации: файл и URL добавляются,
// только если заданы. Лог-потребитель добавляется всегда.
func NewFromConfig(path, url string, logger *zap.SugaredLogger) *Auditer {
	auditer := NewAuditer(logger)
	auditer.RegisterClient(NewLogAuditer(auditer.logger))

	if path != "" {
		auditer.RegisterClient(NewFileAuditer(path))
	}
	if url != "" {
		auditer.RegisterClient(NewURLAuditer(url, 5*time.Second))
	}
	return auditer
}

var _ engine.Sink = (*Auditer)(nil)
