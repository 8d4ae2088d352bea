// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "sync"

// Transport is the duplex broadcast pipe the store syncs through.
// Handlers registered with On may be invoked from any goroutine.
type Transport interface {
	Join(room string) error
	Emit(event string, payload []byte) error
	On(event string, handler func(payload []byte))
}

// Persister is durable key/value storage local to one client.
type Persister interface {
	// Load returns ok=false when key has never been saved.
	Load(key string) (value []byte, ok bool, err error)
	Save(key string, value []byte) error
}

// NopTransport discards emits and never delivers events. Used when the
// client runs offline.
type NopTransport struct{}

func (NopTransport) Join(string) error               { return nil }
func (NopTransport) Emit(string, []byte) error       { return nil }
func (NopTransport) On(string, func(payload []byte)) {}

// MemoryPersister keeps values in a map. Safe for concurrent use.
type MemoryPersister struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryPersister) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}
