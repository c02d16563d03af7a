package tokenstore

import "sync"

// Memory is a non-durable in-memory Store, used in tests.
type Memory struct {
	mu    sync.Mutex
	token string

	// Err, when non-nil, is returned by every operation. Tests use it to
	// exercise the non-fatal persistence-failure path.
	Err error
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *Memory) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.token = token
	return nil
}

func (s *Memory) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.token = ""
	return nil
}
