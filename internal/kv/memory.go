package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Intended for tests and throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// View runs fn under a read lock.
func (m *Memory) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{m: m, readOnly: true})
}

// Update runs fn under the write lock, staging writes until fn succeeds.
func (m *Memory) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{m: m, staged: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.staged {
		if v == nil {
			delete(m.data, k)
			continue
		}
		m.data[k] = v
	}
	return nil
}

// Clear drops every key.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

type memTx struct {
	m        *Memory
	readOnly bool
	// staged holds pending writes; a nil value marks a delete.
	staged map[string][]byte
}

func (t *memTx) Get(key string) ([]byte, error) {
	if v, ok := t.staged[key]; ok {
		if v == nil {
			return nil, ErrNotFound
		}
		return clone(v), nil
	}
	v, ok := t.m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v), nil
}

func (t *memTx) Set(key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	t.staged[key] = clone(value)
	return nil
}

func (t *memTx) Delete(key string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.staged[key] = nil
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
