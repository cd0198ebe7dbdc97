// Package db открывает соединение с базой данных хранилища.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/levinOo/go-state-mirror/migrations"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// retryDelays задаёт паузы между попытками подключения.
var retryDelays = []time.Duration{time.Second, 3 * time.Second, 5 * time.Second}

// DriverName возвращает имя драйвера database/sql для драйвера хранилища.
func DriverName(driver string) (string, error) {
	switch driver {
	case migrations.DriverPostgres, "":
		return "pgx", nil
	case migrations.DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// ConnectDB открывает соединение и проверяет его пингом.
// При неудаче повторяет попытку с паузами 1s, 3s, 5s.
func ConnectDB(ctx context.Context, driver, dsn string, sugar *zap.SugaredLogger) (*sql.DB, error) {
	name, err := DriverName(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if name == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	for attempt := 0; ; attempt++ {
		err = conn.PingContext(ctx)
		if err == nil {
			return conn, nil
		}
		if attempt >= len(retryDelays) {
			break
		}

		delay := retryDelays[attempt]
		sugar.Warnw("Database ping failed, retrying", "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			conn.Close()
			return nil, ctx.Err()
		}
	}

	conn.Close()
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", len(retryDelays)+1, err)
}
