package settings

import "sync"

// Store persists opaque blobs by key. Load returns ErrNotFound when the
// key has never been saved or was erased.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, blob []byte) error
	Erase(key string) error
}

// MemStore keeps blobs in memory.
type MemStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemStore() *MemStore { return &MemStore{m: map[string][]byte{}} }

func (s *MemStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *MemStore) Save(key string, blob []byte) error {
	s.mu.Lock()
	s.m[key] = append([]byte(nil), blob...)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Erase(key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
