package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// DBStorage хранит снимок состояния в SQL-базе (PostgreSQL или SQLite).
// Схема создаётся миграциями из пакета migrations. Запросы используют
// плейсхолдеры $N, которые понимают оба драйвера.
type DBStorage struct {
	db *sql.DB
}

func NewDBStorage(db *sql.DB) *DBStorage {
	return &DBStorage{db: db}
}

// Save заменяет содержимое всех таблиц снимком в одной транзакции.
// Стоимость сохранения растёт с объёмом истории и журнала подсветок:
// каждый вызов удаляет и заново вставляет все их строки.
// TODO: дописывать только новые строки history и highlights по seq.
func (d *DBStorage) Save(ctx context.Context, state *models.StateExport) (err error) {
	if state == nil {
		return errors.New("nil state")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"metrics", "flags", "thresholds", "history", "highlights"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err = insertMetrics(ctx, tx, &state.Metrics); err != nil {
		return err
	}
	if err = insertFlags(ctx, tx, &state.Flags); err != nil {
		return err
	}
	if err = insertThresholds(ctx, tx, &state.Thresholds, &state.Levels); err != nil {
		return err
	}
	if err = insertHistory(ctx, tx, &state.History); err != nil {
		return err
	}
	if err = insertHighlights(ctx, tx, state.Highlights); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertMetrics(ctx context.Context, tx *sql.Tx, metrics *models.OrderedMap[int64]) error {
	if metrics.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metrics (name, value, position) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare metrics insert: %w", err)
	}
	defer stmt.Close()

	pos := 0
	metrics.Range(func(name string, value int64) bool {
		_, err = stmt.ExecContext(ctx, name, value, pos)
		pos++
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("insert metric: %w", err)
	}
	return nil
}

func insertFlags(ctx context.Context, tx *sql.Tx, flags *models.OrderedMap[bool]) error {
	if flags.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO flags (name, value, position) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare flags insert: %w", err)
	}
	defer stmt.Close()

	pos := 0
	flags.Range(func(name string, value bool) bool {
		_, err = stmt.ExecContext(ctx, name, value, pos)
		pos++
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("insert flag: %w", err)
	}
	return nil
}

// insertThresholds пишет пороги и уровни в одну таблицу. Ключ, у которого есть
// только уровень, хранится с NULL в колонке value.
func insertThresholds(ctx context.Context, tx *sql.Tx, thresholds *models.OrderedMap[int64], levels *models.OrderedMap[string]) error {
	if thresholds.Len() == 0 && levels.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO thresholds (name, value, level, position) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare thresholds insert: %w", err)
	}
	defer stmt.Close()

	keys := thresholds.Keys()
	levels.Range(func(name string, _ string) bool {
		if !thresholds.Has(name) {
			keys = append(keys, name)
		}
		return true
	})

	for pos, name := range keys {
		var value sql.NullInt64
		if v, ok := thresholds.Get(name); ok {
			value = sql.NullInt64{Int64: v, Valid: true}
		}
		var level sql.NullString
		if l, ok := levels.Get(name); ok {
			level = sql.NullString{String: l, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, name, value, level, pos); err != nil {
			return fmt.Errorf("insert threshold %s: %w", name, err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, history *models.OrderedMap[[]string]) error {
	if history.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO history (name, key_position, seq, entry) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	pos := 0
	history.Range(func(name string, entries []string) bool {
		for seq, entry := range entries {
			if _, err = stmt.ExecContext(ctx, name, pos, seq, entry); err != nil {
				return false
			}
		}
		pos++
		return true
	})
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func insertHighlights(ctx context.Context, tx *sql.Tx, highlights []string) error {
	if len(highlights) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO highlights (seq, entry) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare highlights insert: %w", err)
	}
	defer stmt.Close()

	for seq, entry := range highlights {
		if _, err := stmt.ExecContext(ctx, seq, entry); err != nil {
			return fmt.Errorf("insert highlight: %w", err)
		}
	}
	return nil
}

// Load собирает снимок из таблиц. Если все таблицы пусты, возвращает ErrNoState.
func (d *DBStorage) Load(ctx context.Context) (*models.StateExport, error) {
	state := models.NewStateExport()

	if err := d.loadMetrics(ctx, state); err != nil {
		return nil, err
	}
	if err := d.loadFlags(ctx, state); err != nil {
		return nil, err
	}
	if err := d.loadThresholds(ctx, state); err != nil {
		return nil, err
	}
	if err := d.loadHistory(ctx, state); err != nil {
		return nil, err
	}
	if err := d.loadHighlights(ctx, state); err != nil {
		return nil, err
	}

	if state.Metrics.Len() == 0 && state.Flags.Len() == 0 && state.Thresholds.Len() == 0 &&
		state.Levels.Len() == 0 && state.History.Len() == 0 && len(state.Highlights) == 0 {
		return nil, ErrNoState
	}
	return state, nil
}

func (d *DBStorage) loadMetrics(ctx context.Context, state *models.StateExport) error {
	rows, err := d.db.QueryContext(ctx, `SELECT name, value FROM metrics ORDER BY position`)
	if err != nil {
		return fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			value int64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scan metric: %w", err)
		}
		state.Metrics.Set(name, value)
	}
	return rows.Err()
}

func (d *DBStorage) loadFlags(ctx context.Context, state *models.StateExport) error {
	rows, err := d.db.QueryContext(ctx, `SELECT name, value FROM flags ORDER BY position`)
	if err != nil {
		return fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			value bool
		)
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scan flag: %w", err)
		}
		state.Flags.Set(name, value)
	}
	return rows.Err()
}

func (d *DBStorage) loadThresholds(ctx context.Context, state *models.StateExport) error {
	rows, err := d.db.QueryContext(ctx, `SELECT name, value, level FROM thresholds ORDER BY position`)
	if err != nil {
		return fmt.Errorf("query thresholds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			value sql.NullInt64
			level sql.NullString
		)
		if err := rows.Scan(&name, &value, &level); err != nil {
			return fmt.Errorf("scan threshold: %w", err)
		}
		if value.Valid {
			state.Thresholds.Set(name, value.Int64)
		}
		if level.Valid {
			state.Levels.Set(name, level.String)
		}
	}
	return rows.Err()
}

func (d *DBStorage) loadHistory(ctx context.Context, state *models.StateExport) error {
	rows, err := d.db.QueryContext(ctx, `SELECT name, entry FROM history ORDER BY key_position, seq`)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, entry string
		if err := rows.Scan(&name, &entry); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		entries, _ := state.History.Get(name)
		state.History.Set(name, append(entries, entry))
	}
	return rows.Err()
}

func (d *DBStorage) loadHighlights(ctx context.Context, state *models.StateExport) error {
	rows, err := d.db.QueryContext(ctx, `SELECT entry FROM highlights ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("query highlights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return fmt.Errorf("scan highlight: %w", err)
		}
		state.Highlights = append(state.Highlights, entry)
	}
	return rows.Err()
}

func (d *DBStorage) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DBStorage) Close() error {
	return d.db.Close()
}
