package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// FileSnapshot persists the full history to a JSON file so a restart picks
// up where the previous run left off. Writes go through a temp file and
// rename so a crash mid-write never corrupts the snapshot.
type FileSnapshot struct {
	mu   sync.Mutex
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (f *FileSnapshot) Save(_ context.Context, records []model.PriceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file is not an error; it simply
// means no history has been persisted yet.
func (f *FileSnapshot) Load(_ context.Context) ([]model.PriceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var records []model.PriceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return records, nil
}

func (f *FileSnapshot) Ping(context.Context) error { return nil }

func (f *FileSnapshot) Close() error { return nil }
