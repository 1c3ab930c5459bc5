package storage

import "sync"

// Memory is an in-process Blobs used by tests and dry runs. PutErr, when
// set, is returned by every Put to simulate a failing disk.
type Memory struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	PutErr error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	if err := checkKey(key); err != nil {
		return err
	}
	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.blobs[key] = buf
	return nil
}
