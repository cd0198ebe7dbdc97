package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/levinOo/go-state-mirror/internal/engine"
)

// SafeGetMetric возвращает значение метрики, а если её нет, записывает def и возвращает его.
// Сбой хука при записи значения по умолчанию не считается ошибкой: значение уже применено.
func (c *Client) SafeGetMetric(ctx context.Context, key string, def int64) (int64, error) {
	value, ok, err := c.GetMetric(ctx, key)
	if err != nil || ok {
		return value, err
	}
	if _, err := c.UpdateMetric(ctx, key, def); err != nil && !errors.Is(err, engine.ErrHookFailure) {
		return 0, err
	}
	return def, nil
}

// SafeGetFlag возвращает значение флага, а если его нет, записывает def и возвращает его.
func (c *Client) SafeGetFlag(ctx context.Context, key string, def bool) (bool, error) {
	value, ok, err := c.GetFlag(ctx, key)
	if err != nil || ok {
		return value, err
	}
	if _, err := c.ToggleFlag(ctx, key, def); err != nil {
		return false, err
	}
	return def, nil
}

// SafeSetThreshold задаёт порог с уровнем по умолчанию, только если явного порога нет.
// Возвращает true, если порог был установлен.
func (c *Client) SafeSetThreshold(ctx context.Context, key string, threshold int64) (bool, error) {
	info, ok, err := c.GetThreshold(ctx, key)
	if err != nil {
		return false, err
	}
	if ok && info.Threshold != nil {
		return false, nil
	}
	if _, err := c.SetThreshold(ctx, key, threshold, ""); err != nil {
		return false, err
	}
	return true, nil
}

// PollHighlights опрашивает журнал подсветок с периодом interval и вызывает fn
// для каждой новой записи. Если журнал на сервере стал короче (состояние восстановлено),
// он читается заново с начала. Возвращает ctx.Err() после отмены контекста.
// Ошибки запросов передаются в onErr, если он задан, и опрос продолжается.
// Неположительный interval возвращает ErrInvalidArgument.
func (c *Client) PollHighlights(ctx context.Context, interval time.Duration, fn func(string), onErr func(error)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", engine.ErrInvalidArgument)
	}

	seen := 0
	poll := func() {
		entries, err := c.GetHighlights(ctx)
		if err != nil {
			if onErr != nil && ctx.Err() == nil {
				onErr(err)
			}
			return
		}
		if len(entries) < seen {
			seen = 0
		}
		for _, entry := range entries[seen:] {
			fn(entry)
		}
		seen = len(entries)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		poll()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ExportState сохраняет документ экспорта в файл в виде JSON с отступами.
func (c *Client) ExportState(ctx context.Context, path string) error {
	state, err := c.Export(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return nil
}
