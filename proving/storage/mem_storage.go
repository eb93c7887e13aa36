package storage

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// MemStorage holds artifacts in memory, for tests and for deployments that
// regenerate setup artifacts on every cold start.
type MemStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{values: make(map[string][]byte)}
}

func (m *MemStorage) Reader(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(value)), nil
}

func (m *MemStorage) Writer(key string) (io.WriteCloser, error) {
	return &memWriter{store: m, key: key}, nil
}

type memWriter struct {
	store *MemStorage
	key   string
	buf   bytes.Buffer
}

func (w *memWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *memWriter) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.values[w.key] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}
