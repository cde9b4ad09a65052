// Package memory provides an in-memory snapshot store, used as the default
// throwaway backend and in tests.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// FailSavesWith makes every subsequent Save return err. Pass nil to heal.
func (s *Store) FailSavesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *Store) Load(_ context.Context, collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[collection]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Save(_ context.Context, collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[collection] = append([]byte(nil), data...)
	return nil
}
