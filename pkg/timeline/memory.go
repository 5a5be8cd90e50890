package timeline

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-memory Store. Values are kept encoded, so callers never
// share state with the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, tl *Timeline) error {
	if err := validName(tl.Name); err != nil {
		return err
	}
	data, err := encode(tl)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[string(key(tl.Name))] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(_ context.Context, name string) (*Timeline, error) {
	m.mu.RLock()
	data, ok := m.data[string(key(name))]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(data)
}

func (m *Memory) List(_ context.Context) iter.Seq2[*Timeline, error] {
	m.mu.RLock()
	values := maps.Clone(m.data)
	m.mu.RUnlock()
	keys := slices.Sorted(maps.Keys(values))

	return func(yield func(*Timeline, error) bool) {
		for _, k := range keys {
			if !yield(decode(values[k])) {
				return
			}
		}
	}
}

func (m *Memory) Delete(_ context.Context, name string) error {
	k := string(key(name))
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[k]; !ok {
		return ErrNotFound
	}
	delete(m.data, k)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
