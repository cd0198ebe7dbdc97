// Package handler реализует HTTP API сервера состояния.
// Все обращения к движку сериализуются одним sync.RWMutex:
// операции записи выполняются эксклюзивно, чтение допускается параллельно.
package handler

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/levinOo/go-state-mirror/internal/pool"
	"github.com/levinOo/go-state-mirror/internal/repository"
	"go.uber.org/zap"
)

// Handler связывает HTTP-маршруты с экземпляром движка.
type Handler struct {
	mu      sync.RWMutex
	engine  *engine.Engine
	store   repository.Storage
	logger  *zap.SugaredLogger
	buffers *pool.Pool[*bytes.Buffer]
}

// New создаёт Handler. store используется только для /ping и может быть nil.
func New(e *engine.Engine, store repository.Storage, sugar *zap.SugaredLogger) *Handler {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &Handler{
		engine: e,
		store:  store,
		logger: sugar,
		buffers: pool.New(func() *bytes.Buffer {
			return new(bytes.Buffer)
		}),
	}
}

// Read выполняет fn под блокировкой чтения.
func (h *Handler) Read(fn func(e *engine.Engine)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.engine)
}

// Write выполняет fn под эксклюзивной блокировкой.
func (h *Handler) Write(fn func(e *engine.Engine) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.engine)
}

// Export возвращает снимок состояния движка. Безопасен для вызова из фоновых горутин.
func (h *Handler) Export() *models.StateExport {
	var state *models.StateExport
	h.Read(func(e *engine.Engine) {
		state = e.Export()
	})
	return state
}

// Router собирает маршруты API.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	wrap := func(fn http.HandlerFunc) http.HandlerFunc {
		return LoggerFuncServer(DecompressMiddleware(CompressMiddleware(fn)), h.logger)
	}

	r.Get("/", wrap(h.GetListHandler))
	r.Get("/ping", wrap(h.PingHandler))

	r.Route("/metrics", func(r chi.Router) {
		r.Get("/", wrap(h.GetAllMetricsHandler))
		r.Post("/", wrap(h.BatchMetricsHandler))
		r.Get("/{key}", wrap(h.GetMetricHandler))
		r.Post("/{key}/{value}", wrap(h.UpdateMetricHandler))
	})

	r.Route("/flags", func(r chi.Router) {
		r.Get("/", wrap(h.GetAllFlagsHandler))
		r.Post("/", wrap(h.BatchFlagsHandler))
		r.Get("/{key}", wrap(h.GetFlagHandler))
		r.Post("/{key}/{value}", wrap(h.ToggleFlagHandler))
	})

	r.Get("/levels", wrap(h.GetAllLevelsHandler))
	r.Route("/thresholds", func(r chi.Router) {
		r.Get("/", wrap(h.GetAllThresholdsHandler))
		r.Get("/{key}", wrap(h.GetThresholdHandler))
		r.Post("/{key}", wrap(h.SetThresholdHandler))
	})

	r.Get("/history/{key}", wrap(h.GetHistoryHandler))
	r.Get("/highlights", wrap(h.GetHighlightsHandler))
	r.Post("/snapshot", wrap(h.SnapshotHandler))
	r.Get("/export", wrap(h.ExportHandler))
	r.Post("/restore", wrap(h.RestoreHandler))

	return r
}
