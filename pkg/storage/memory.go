package storage

import "sync"

// MemoryBackend holds values for the lifetime of the process. It backs the
// session replica in-process and stands in for other replicas in tests.
type MemoryBackend struct {
	name string
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryBackend(name string) *MemoryBackend {
	return &MemoryBackend{name: name, data: make(map[string]string)}
}

func (b *MemoryBackend) Name() string { return b.name }

func (b *MemoryBackend) Read(key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (b *MemoryBackend) Write(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}
