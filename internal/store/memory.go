package store

import (
	"context"
	"slices"
	"sync"
)

type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]V
	order []string
}

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{items: make(map[string]V)}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

func (m *Memory[V]) Put(_ context.Context, key string, v V) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(key, v)
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(key)
}

func (m *Memory[V]) Update(_ context.Context, key string, fn func(*V) error) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(key, fn)
}

func (m *Memory[V]) List(_ context.Context) ([]V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(), nil
}

// unlocked helpers, shared with JSONFile

func (m *Memory[V]) put(key string, v V) {
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = v
}

func (m *Memory[V]) delete(key string) error {
	if _, ok := m.items[key]; !ok {
		return ErrNotFound
	}
	delete(m.items, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

func (m *Memory[V]) update(key string, fn func(*V) error) (V, error) {
	v, ok := m.items[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	if err := fn(&v); err != nil {
		var zero V
		return zero, err
	}
	m.items[key] = v
	return v, nil
}

func (m *Memory[V]) list() []V {
	out := make([]V, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.items[k])
	}
	return out
}
