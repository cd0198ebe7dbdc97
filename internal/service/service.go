// Package service управляет жизненным циклом сервера состояния: выбирает хранилище,
// восстанавливает состояние, подключает аудит, запускает HTTP-сервер и периодическое
// сохранение, корректно завершает работу по SIGINT/SIGTERM.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/levinOo/go-state-mirror/internal/audit"
	"github.com/levinOo/go-state-mirror/internal/config"
	"github.com/levinOo/go-state-mirror/internal/config/db"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/handler"
	"github.com/levinOo/go-state-mirror/internal/logger"
	"github.com/levinOo/go-state-mirror/internal/repository"
	"github.com/levinOo/go-state-mirror/migrations"
	"go.uber.org/zap"
)

// ServerComponents содержит все компоненты, необходимые для работы сервера.
type ServerComponents struct {
	server  *http.Server
	handler *handler.Handler
	store   repository.Storage
	logger  *zap.SugaredLogger
}

// Handler возвращает HTTP-обработчик сервера.
func (c *ServerComponents) Handler() *handler.Handler {
	return c.handler
}

// Serve инициализирует и запускает сервер с указанной конфигурацией
// и блокируется до получения SIGINT/SIGTERM или ошибки HTTP-сервера.
func Serve(cfg config.Config) error {
	sugar, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer sugar.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := Setup(ctx, cfg, sugar)
	if err != nil {
		return err
	}

	saver := setupPeriodicSaver(cfg, components, sugar)
	return run(ctx, components, saver, cfg)
}

// Setup собирает хранилище, движок с подписчиками аудита и HTTP-сервер.
// При cfg.Restore состояние загружается из хранилища, затем задаются пороги из cfg.ThresholdsFile.
func Setup(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) (*ServerComponents, error) {
	sugar.Infow("Starting server with config",
		"address", cfg.Addr,
		"storeInterval", cfg.StoreInterval,
		"fileStorage", cfg.FileStorage,
		"restore", cfg.Restore,
		"storageDriver", cfg.StorageDriver,
		"auditFile", cfg.AuditFile,
		"auditURL", cfg.AuditURL,
		"thresholdsFile", cfg.ThresholdsFile,
	)

	seeds, err := config.LoadThresholds(cfg.ThresholdsFile)
	if err != nil {
		return nil, err
	}

	store, err := setupStorage(ctx, cfg, sugar)
	if err != nil {
		return nil, err
	}

	auditer := audit.NewFromConfig(cfg.AuditFile, cfg.AuditURL, sugar)
	e := engine.New(engine.WithSink(auditer), engine.WithLogger(sugar))
	h := handler.New(e, store, sugar)

	if cfg.Restore {
		if err := restoreState(ctx, h, store, sugar); err != nil {
			store.Close()
			return nil, err
		}
	}

	if err := seedThresholds(h, seeds, sugar); err != nil {
		store.Close()
		return nil, err
	}

	return &ServerComponents{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: h,
		store:   store,
		logger:  sugar,
	}, nil
}

// setupStorage выбирает хранилище: база данных при заданном DSN (после миграций),
// иначе файл при заданном пути, иначе память.
func setupStorage(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) (repository.Storage, error) {
	switch {
	case cfg.AddrDB != "":
		conn, err := db.ConnectDB(ctx, cfg.StorageDriver, cfg.AddrDB, sugar)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}

		driver := cfg.StorageDriver
		if driver == "" {
			driver = migrations.DriverPostgres
		}
		if err := migrations.RunMigrations(conn, driver); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		sugar.Infow("Using database storage", "driver", driver)
		return repository.NewDBStorage(conn), nil
	case cfg.FileStorage != "":
		sugar.Infow("Using file storage", "file", cfg.FileStorage)
		return repository.NewFileStorage(cfg.FileStorage), nil
	default:
		sugar.Infow("Using in-memory storage")
		return repository.NewMemStorage(), nil
	}
}

func restoreState(ctx context.Context, h *handler.Handler, store repository.Storage, sugar *zap.SugaredLogger) error {
	state, err := store.Load(ctx)
	if errors.Is(err, repository.ErrNoState) {
		sugar.Infow("No saved state, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	return h.Write(func(e *engine.Engine) error {
		return e.Restore(state)
	})
}

// seedThresholds задаёт пороги из файла только для ключей без явного порога,
// чтобы не перетирать значения, восстановленные из хранилища.
func seedThresholds(h *handler.Handler, seeds []config.ThresholdSeed, sugar *zap.SugaredLogger) error {
	return h.Write(func(e *engine.Engine) error {
		for _, seed := range seeds {
			if _, ok := e.GetThreshold(seed.Key); ok {
				sugar.Debugw("Threshold already set, seed skipped", "key", seed.Key)
				continue
			}
			if err := e.SetThreshold(seed.Key, seed.Value, seed.Level); err != nil {
				return fmt.Errorf("seed threshold %q: %w", seed.Key, err)
			}
		}
		if len(seeds) > 0 {
			sugar.Infow("Thresholds seeded", "count", len(seeds))
		}
		return nil
	})
}

func setupPeriodicSaver(cfg config.Config, components *ServerComponents, sugar *zap.SugaredLogger) *PeriodicSaver {
	if cfg.StoreInterval <= 0 {
		sugar.Infow("Periodic save disabled", "storeInterval", cfg.StoreInterval)
		return nil
	}

	saver := NewPeriodicSaver(components.handler, components.store, time.Duration(cfg.StoreInterval)*time.Second, sugar)
	saver.Start()

	return saver
}

func run(ctx context.Context, components *ServerComponents, saver *PeriodicSaver, cfg config.Config) error {
	sugar := components.logger
	serverErr := make(chan error, 1)

	go func() {
		sugar.Infow("HTTP server started", "address", cfg.Addr)
		if err := components.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			sugar.Errorw("Server error", "error", err)
			if saver != nil {
				saver.Stop()
			}
			components.store.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		sugar.Infoln("Shutting down server...")
	}

	return gracefulShutdown(components, saver)
}

// gracefulShutdown останавливает сохранение и HTTP-сервер, делает финальное сохранение
// и закрывает хранилище.
func gracefulShutdown(components *ServerComponents, saver *PeriodicSaver) error {
	sugar := components.logger

	if saver != nil {
		saver.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := components.server.Shutdown(ctx); err != nil {
		sugar.Errorw("Server shutdown error", "error", err)
	}

	sugar.Infow("Performing final save on shutdown")
	saveErr := components.store.Save(ctx, components.handler.Export())

	if err := components.store.Close(); err != nil {
		sugar.Errorw("Error closing storage", "error", err)
	}

	if saveErr != nil {
		return fmt.Errorf("failed to save state on shutdown: %w", saveErr)
	}

	sugar.Infoln("State saved and server stopped gracefully")
	return nil
}
