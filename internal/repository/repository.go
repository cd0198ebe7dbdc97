// Package repository реализует долговременное хранение снимков состояния движка.
// Снимок сохраняется целиком: текущие значения, пороги, история и журнал подсветок.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// ErrNoState возвращается Load, если в хранилище ещё нет сохранённого состояния.
var ErrNoState = errors.New("no saved state")

// Storage описывает хранилище снимков состояния.
type Storage interface {
	// Save заменяет сохранённое состояние переданным снимком.
	Save(ctx context.Context, state *models.StateExport) error
	// Load возвращает последний сохранённый снимок или ErrNoState.
	Load(ctx context.Context) (*models.StateExport, error)
	Ping(ctx context.Context) error
	Close() error
}

// --------------------- MemStorage ---------------------

// MemStorage хранит последний снимок в памяти процесса.
type MemStorage struct {
	mu    *sync.Mutex
	state *models.StateExport
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		mu: &sync.Mutex{},
	}
}

func (m *MemStorage) Save(ctx context.Context, state *models.StateExport) error {
	if state == nil {
		return errors.New("nil state")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = cloneState(state)
	return nil
}

func (m *MemStorage) Load(ctx context.Context) (*models.StateExport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, ErrNoState
	}
	return cloneState(m.state), nil
}

func (m *MemStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MemStorage) Close() error {
	return nil
}

// cloneState копирует снимок, чтобы вызывающий код не мог изменить сохранённые данные.
func cloneState(src *models.StateExport) *models.StateExport {
	dst := models.NewStateExport()
	dst.Metrics = *src.Metrics.Clone()
	dst.Flags = *src.Flags.Clone()
	dst.Thresholds = *src.Thresholds.Clone()
	dst.Levels = *src.Levels.Clone()
	dst.Highlights = append(dst.Highlights, src.Highlights...)
	src.History.Range(func(key string, entries []string) bool {
		dst.History.Set(key, append([]string(nil), entries...))
		return true
	})
	return dst
}
