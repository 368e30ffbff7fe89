package kv

import (
	"context"
	"sync"
)

// Memory is a mutex-guarded map implementation of Store. The optional fail
// hooks let tests inject I/O errors on specific operations; they are nil in
// normal use.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string

	// FailGet/FailSet/FailDelete, when non-nil, are consulted per key and may
	// return an error to simulate storage failure for that operation.
	FailGet    func(key string) error
	FailSet    func(key string) error
	FailDelete func(key string) error
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailGet != nil {
		if err := s.FailGet(key); err != nil {
			return "", false, err
		}
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(ctx context.Context, key, value string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		if err := s.FailSet(key); err != nil {
			return err
		}
	}
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(ctx context.Context, keys ...string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		for _, k := range keys {
			if err := s.FailDelete(k); err != nil {
				return err
			}
		}
	}
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

// Len reports the number of stored keys.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
