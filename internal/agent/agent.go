// Package agent периодически собирает показатели хоста и рантайма Go
// и отправляет их на сервер состояния пакетной записью метрик.
package agent

import (
	"context"
	"errors"
	"runtime"
	"syscall"
	"time"

	"github.com/levinOo/go-state-mirror/internal/agent/config"
	"github.com/levinOo/go-state-mirror/internal/client"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
)

// retryIntervals задаёт паузы между повторами при отказе в соединении.
var retryIntervals = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// MemorySource возвращает статистику виртуальной памяти хоста.
type MemorySource func() (*mem.VirtualMemoryStat, error)

// Sample содержит один снимок показателей.
type Sample struct {
	UsedPercent  int64
	Total        int64
	Available    int64
	HeapAlloc    int64
	NumGoroutine int64
}

// Agent собирает и отправляет метрики.
type Agent struct {
	cfg       config.Config
	client    *client.Client
	memory    MemorySource
	logger    *zap.SugaredLogger
	sleep     func(ctx context.Context, d time.Duration) error
	pollCount int64
	latest    Sample
	online    bool
}

// New создаёт агента для сервера из cfg.
func New(cfg config.Config, c *client.Client, logger *zap.SugaredLogger) *Agent {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Agent{
		cfg:    cfg,
		client: c,
		memory: mem.VirtualMemory,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// Collect снимает текущие показатели и увеличивает счётчик опросов.
func (a *Agent) Collect() error {
	vm, err := a.memory()
	if err != nil {
		return err
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	a.latest = Sample{
		UsedPercent:  int64(vm.UsedPercent + 0.5),
		Total:        int64(vm.Total),
		Available:    int64(vm.Available),
		HeapAlloc:    int64(ms.HeapAlloc),
		NumGoroutine: int64(runtime.NumGoroutine()),
	}
	a.pollCount++
	return nil
}

// Metrics возвращает последний снимок в виде упорядоченного набора метрик с префиксом.
func (a *Agent) Metrics() *models.OrderedMap[int64] {
	p := a.cfg.Prefix + "."
	m := models.NewOrderedMap[int64]()
	m.Set(p+"mem.used_pct", a.latest.UsedPercent)
	m.Set(p+"mem.total", a.latest.Total)
	m.Set(p+"mem.available", a.latest.Available)
	m.Set(p+"runtime.heap_alloc", a.latest.HeapAlloc)
	m.Set(p+"runtime.goroutines", a.latest.NumGoroutine)
	m.Set(p+"poll_count", a.pollCount)
	return m
}

// Report отправляет метрики. Отказ в соединении повторяется с паузами 1s, 3s, 5s.
// После первой успешной отправки агент выставляет флаг "<prefix>.online".
func (a *Agent) Report(ctx context.Context) error {
	metrics := a.Metrics()

	err := a.send(ctx, metrics)
	for i := 0; i < len(retryIntervals) && errors.Is(err, syscall.ECONNREFUSED); i++ {
		a.logger.Warnw("Retrying report", "attempt", i+1, "error", err)
		if serr := a.sleep(ctx, retryIntervals[i]); serr != nil {
			return serr
		}
		err = a.send(ctx, metrics)
	}
	if err != nil {
		return err
	}

	if !a.online {
		if _, err := a.client.ToggleFlag(ctx, a.cfg.Prefix+".online", true); err != nil {
			return err
		}
		a.online = true
	}
	return nil
}

func (a *Agent) send(ctx context.Context, metrics *models.OrderedMap[int64]) error {
	_, err := a.client.BatchUpdateMetrics(ctx, metrics)
	if errors.Is(err, engine.ErrHookFailure) {
		a.logger.Warnw("Server highlight hook failed", "error", err)
		return nil
	}
	return err
}

// Run собирает показатели каждые PollInterval секунд и отправляет их каждые
// ReqInterval секунд до отмены контекста.
func (a *Agent) Run(ctx context.Context) error {
	pollTicker := time.NewTicker(time.Duration(a.cfg.PollInterval) * time.Second)
	defer pollTicker.Stop()
	reqTicker := time.NewTicker(time.Duration(a.cfg.ReqInterval) * time.Second)
	defer reqTicker.Stop()

	a.logger.Infow("Agent started", "address", a.cfg.Addr, "prefix", a.cfg.Prefix)

	for {
		select {
		case <-ctx.Done():
			a.logger.Infow("Agent stopped")
			return nil
		case <-pollTicker.C:
			if err := a.Collect(); err != nil {
				a.logger.Errorw("Collect failed", "error", err)
			}
		case <-reqTicker.C:
			if a.pollCount == 0 {
				continue
			}
			if err := a.Report(ctx); err != nil && ctx.Err() == nil {
				a.logger.Errorw("Final sending metrics error", "error", err)
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
