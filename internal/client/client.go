// Package client реализует HTTP-клиент API сервера состояния на основе resty.
// Помимо методов на каждый маршрут содержит вспомогательные операции:
// чтение со значением по умолчанию, установку порога только при его отсутствии,
// опрос журнала подсветок и выгрузку экспорта в файл.
package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/levinOo/go-state-mirror/internal/pool"
)

// APIError описывает ответ сервера со статусом 4xx/5xx.
// Поддерживает errors.Is с engine.ErrInvalidArgument (400) и engine.ErrNotFound (404).
type APIError struct {
	Status int
	Result models.WriteResult
}

func (e *APIError) Error() string {
	if e.Result.Error != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Result.Error)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case engine.ErrInvalidArgument:
		return e.Status == http.StatusBadRequest
	case engine.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Client обращается к API сервера состояния.
type Client struct {
	http    *resty.Client
	gzip    bool
	buffers *pool.Pool[*bytes.Buffer]
}

// Option настраивает Client.
type Option func(*Client)

// WithTimeout ограничивает время одного запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithGzip включает сжатие тел запросов.
func WithGzip(enabled bool) Option {
	return func(c *Client) {
		c.gzip = enabled
	}
}

// New создаёт клиента. Адрес без схемы дополняется "http://".
func New(addr string, opts ...Option) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	c := &Client{
		http: resty.New().SetBaseURL(strings.TrimRight(addr, "/")).SetTimeout(10 * time.Second),
		buffers: pool.New(func() *bytes.Buffer {
			return new(bytes.Buffer)
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do выполняет запрос и декодирует JSON-ответ в out.
// Статус 4xx/5xx превращается в *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")

	if body != nil {
		buf := c.buffers.Get()
		defer c.buffers.Put(buf)

		if err := c.encodeBody(buf, body); err != nil {
			return err
		}
		req.SetHeader("Content-Type", "application/json").SetBody(buf.Bytes())
		if c.gzip {
			req.SetHeader("Content-Encoding", "gzip")
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode()}
		_ = json.Unmarshal(resp.Body(), &apiErr.Result)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) encodeBody(buf *bytes.Buffer, body any) error {
	if !c.gzip {
		return json.NewEncoder(buf).Encode(body)
	}

	zw := gzip.NewWriter(buf)
	if err := json.NewEncoder(zw).Encode(body); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress body: %w", err)
	}
	return nil
}

// write выполняет операцию записи. Сбой хука на сервере возвращается как ошибка,
// оборачивающая engine.ErrHookFailure, вместе с результатом: запись при этом применена.
func (c *Client) write(ctx context.Context, path string, body any) (*models.WriteResult, error) {
	var result models.WriteResult
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return &apiErr.Result, err
		}
		return nil, err
	}
	if result.HookError != "" {
		return &result, fmt.Errorf("%w: %s", engine.ErrHookFailure, result.HookError)
	}
	return &result, nil
}

// lookup выполняет GET и сообщает ok=false для 404.
func (c *Client) lookup(ctx context.Context, path string, out any) (bool, error) {
	err := c.do(ctx, http.MethodGet, path, nil, out)
	if errors.Is(err, engine.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func keyPath(prefix, key string) string {
	return prefix + "/" + url.PathEscape(key)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

func (c *Client) GetMetric(ctx context.Context, key string) (int64, bool, error) {
	var mv models.MetricValue
	ok, err := c.lookup(ctx, keyPath("/metrics", key), &mv)
	return mv.Value, ok, err
}

func (c *Client) UpdateMetric(ctx context.Context, key string, value int64) (*models.WriteResult, error) {
	return c.write(ctx, keyPath("/metrics", key)+"/"+strconv.FormatInt(value, 10), nil)
}

func (c *Client) GetAllMetrics(ctx context.Context) (*models.OrderedMap[int64], error) {
	out := models.NewOrderedMap[int64]()
	return out, c.do(ctx, http.MethodGet, "/metrics", nil, out)
}

func (c *Client) BatchUpdateMetrics(ctx context.Context, updates *models.OrderedMap[int64]) (*models.WriteResult, error) {
	return c.write(ctx, "/metrics", updates)
}

func (c *Client) GetFlag(ctx context.Context, key string) (bool, bool, error) {
	var fv models.FlagValue
	ok, err := c.lookup(ctx, keyPath("/flags", key), &fv)
	return fv.Value, ok, err
}

func (c *Client) ToggleFlag(ctx context.Context, key string, value bool) (*models.WriteResult, error) {
	return c.write(ctx, keyPath("/flags", key)+"/"+strconv.FormatBool(value), nil)
}

func (c *Client) GetAllFlags(ctx context.Context) (*models.OrderedMap[bool], error) {
	out := models.NewOrderedMap[bool]()
	return out, c.do(ctx, http.MethodGet, "/flags", nil, out)
}

func (c *Client) BatchToggleFlags(ctx context.Context, updates *models.OrderedMap[bool]) (*models.WriteResult, error) {
	return c.write(ctx, "/flags", updates)
}

// GetThreshold возвращает явно заданные порог и уровень; ok=false, если не задано ничего.
func (c *Client) GetThreshold(ctx context.Context, key string) (*models.ThresholdInfo, bool, error) {
	var info models.ThresholdInfo
	ok, err := c.lookup(ctx, keyPath("/thresholds", key), &info)
	if !ok {
		return nil, false, err
	}
	return &info, true, nil
}

func (c *Client) SetThreshold(ctx context.Context, key string, value int64, level string) (*models.WriteResult, error) {
	return c.write(ctx, keyPath("/thresholds", key), models.ThresholdRequest{Value: &value, Level: level})
}

func (c *Client) GetAllThresholds(ctx context.Context) (*models.OrderedMap[int64], error) {
	out := models.NewOrderedMap[int64]()
	return out, c.do(ctx, http.MethodGet, "/thresholds", nil, out)
}

func (c *Client) GetAllLevels(ctx context.Context) (*models.OrderedMap[string], error) {
	out := models.NewOrderedMap[string]()
	return out, c.do(ctx, http.MethodGet, "/levels", nil, out)
}

func (c *Client) GetHistory(ctx context.Context, key string) ([]string, error) {
	out := []string{}
	return out, c.do(ctx, http.MethodGet, keyPath("/history", key), nil, &out)
}

func (c *Client) GetHighlights(ctx context.Context) ([]string, error) {
	out := []string{}
	return out, c.do(ctx, http.MethodGet, "/highlights", nil, &out)
}

func (c *Client) SnapshotState(ctx context.Context) error {
	_, err := c.write(ctx, "/snapshot", nil)
	return err
}

func (c *Client) Export(ctx context.Context) (*models.StateExport, error) {
	out := models.NewStateExport()
	if err := c.do(ctx, http.MethodGet, "/export", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Restore(ctx context.Context, state *models.StateExport) error {
	_, err := c.write(ctx, "/restore", state)
	return err
}
