package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/levinOo/go-state-mirror/internal/models"
)

// FileStorage хранит снимок состояния в JSON-файле.
// Запись идёт через временный файл с последующим переименованием,
// поэтому прерванное сохранение не портит предыдущий снимок.
type FileStorage struct {
	mu   *sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		mu:   &sync.Mutex{},
		path: path,
	}
}

// Path возвращает путь к файлу хранилища.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Save(ctx context.Context, state *models.StateExport) error {
	if state == nil {
		return errors.New("nil state")
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := writeFile(f.path, data); err != nil {
		return fmt.Errorf("failed to write file %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStorage) Load(ctx context.Context) (*models.StateExport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoState
	}

	state := models.NewStateExport()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state from %s: %w", f.path, err)
	}
	if state.Highlights == nil {
		state.Highlights = []string{}
	}
	return state, nil
}

func (f *FileStorage) Ping(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

func readFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", fileName, err)
	}
	return data, nil
}

func writeFile(fileName string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close: %w", err)
	}

	return os.Rename(tmp.Name(), fileName)
}
