package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/levinOo/go-state-mirror/internal/agent/config"
	"github.com/levinOo/go-state-mirror/internal/client"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/handler"
	"github.com/shirou/gopsutil/mem"
)

func fakeMemory(stat *mem.VirtualMemoryStat, err error) MemorySource {
	return func() (*mem.VirtualMemoryStat, error) {
		return stat, err
	}
}

func TestCollectAndMetrics(t *testing.T) {
	a := New(config.Config{Prefix: "web"}, nil, nil)
	a.memory = fakeMemory(&mem.VirtualMemoryStat{Total: 1000, Available: 400, UsedPercent: 59.6}, nil)

	if err := a.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := a.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	m := a.Metrics()
	want := []string{"web.mem.used_pct", "web.mem.total", "web.mem.available", "web.runtime.heap_alloc", "web.runtime.goroutines", "web.poll_count"}
	keys := m.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], want[i])
		}
	}

	if v, _ := m.Get("web.mem.used_pct"); v != 60 {
		t.Errorf("used_pct = %d, want 60", v)
	}
	if v, _ := m.Get("web.mem.total"); v != 1000 {
		t.Errorf("total = %d", v)
	}
	if v, _ := m.Get("web.poll_count"); v != 2 {
		t.Errorf("poll_count = %d", v)
	}
	if v, _ := m.Get("web.runtime.goroutines"); v <= 0 {
		t.Errorf("goroutines = %d", v)
	}
}

func TestCollectError(t *testing.T) {
	a := New(config.Config{Prefix: "x"}, nil, nil)
	a.memory = fakeMemory(nil, errors.New("no /proc"))
	if err := a.Collect(); err == nil {
		t.Error("Collect() expected error")
	}
}

func TestReport(t *testing.T) {
	e := engine.New()
	h := handler.New(e, nil, nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	a := New(config.Config{Prefix: "host"}, client.New(srv.URL), nil)
	a.memory = fakeMemory(&mem.VirtualMemoryStat{Total: 2048, Available: 1024, UsedPercent: 50}, nil)
	if err := a.Collect(); err != nil {
		t.Fatal(err)
	}

	if err := a.Report(context.Background()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if err := a.Report(context.Background()); err != nil {
		t.Fatalf("second Report() error = %v", err)
	}

	h.Read(func(e *engine.Engine) {
		if v, _ := e.GetMetric("host.mem.total"); v != 2048 {
			t.Errorf("host.mem.total = %d", v)
		}
		if on, ok := e.GetFlag("host.online"); !ok || !on {
			t.Error("online flag not set")
		}
		if n := len(e.GetHistory("host.online")); n != 1 {
			t.Errorf("online flag written %d times, want 1", n)
		}
		// порог по умолчанию 1000 превышен при каждой отправке total
		count := 0
		for _, hl := range e.GetHighlights() {
			if strings.HasPrefix(hl, "[INFO] host.mem.total crossed threshold") {
				count++
			}
		}
		if count != 2 {
			t.Errorf("highlights = %v", e.GetHighlights())
		}
	})
}

func TestReportRetriesConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	a := New(config.Config{Prefix: "p"}, client.New(addr, client.WithTimeout(time.Second)), nil)
	var sleeps atomic.Int32
	a.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps.Add(1)
		return nil
	}

	if err := a.Report(context.Background()); err == nil {
		t.Fatal("Report() expected error")
	}
	if n := sleeps.Load(); n != int32(len(retryIntervals)) {
		t.Errorf("retries = %d, want %d", n, len(retryIntervals))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a := New(config.Config{Prefix: "p", PollInterval: 1, ReqInterval: 1}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
