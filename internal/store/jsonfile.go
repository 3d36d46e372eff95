package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// JSONFile keeps every value in memory and rewrites the whole file as a
// JSON array after each mutation.
type JSONFile[V any] struct {
	mu    sync.Mutex
	mem   *Memory[V]
	path  string
	keyOf func(V) string
	fresh bool
}

// OpenJSONFile loads path. A missing file gives an empty store with Fresh
// set. An empty or unreadable file is logged and treated as empty; its old
// contents are overwritten on the next write.
func OpenJSONFile[V any](path string, keyOf func(V) string) (*JSONFile[V], error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	f := &JSONFile[V]{mem: NewMemory[V](), path: path, keyOf: keyOf}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.fresh = true
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	case len(raw) == 0:
		return f, nil
	}

	values, err := decodeValues[V](raw)
	if err != nil {
		slog.Warn("discarding unreadable data file", "path", path, "error", err)
		return f, nil
	}
	for _, v := range values {
		f.mem.put(keyOf(v), v)
	}
	return f, nil
}

// decodeValues accepts a JSON array of values or an object mapping keys to
// values. Object members keep their file order. Writes always use the array.
func decodeValues[V any](raw []byte) ([]V, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		var values []V
		err := json.Unmarshal(raw, &values)
		return values, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var values []V
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode %v: %w", key, err)
		}
		values = append(values, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}

// Fresh reports whether the file did not exist when the store was opened.
func (f *JSONFile[V]) Fresh() bool {
	return f.fresh
}

func (f *JSONFile[V]) Get(ctx context.Context, key string) (V, error) {
	return f.mem.Get(ctx, key)
}

func (f *JSONFile[V]) List(ctx context.Context) ([]V, error) {
	return f.mem.List(ctx)
}

func (f *JSONFile[V]) Put(_ context.Context, key string, v V) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.mu.Lock()
	f.mem.put(key, v)
	snapshot := f.mem.list()
	f.mem.mu.Unlock()
	return f.flush(snapshot)
}

func (f *JSONFile[V]) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.mu.Lock()
	err := f.mem.delete(key)
	snapshot := f.mem.list()
	f.mem.mu.Unlock()
	if err != nil {
		return err
	}
	return f.flush(snapshot)
}

func (f *JSONFile[V]) Update(_ context.Context, key string, fn func(*V) error) (V, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.mu.Lock()
	v, err := f.mem.update(key, fn)
	snapshot := f.mem.list()
	f.mem.mu.Unlock()
	if err != nil {
		return v, err
	}
	return v, f.flush(snapshot)
}

func (f *JSONFile[V]) flush(values []V) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		slog.Error("failed to write data file", "path", f.path, "error", err)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
