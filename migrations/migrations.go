// Package migrations содержит SQL-схему хранилища и применяет её при старте сервера.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Поддерживаемые драйверы хранилища.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// RunMigrations применяет все миграции к открытому соединению.
// Повторный запуск на актуальной схеме не считается ошибкой.
func RunMigrations(db *sql.DB, driver string) error {
	source, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var instance database.Driver
	switch driver {
	case DriverPostgres:
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
