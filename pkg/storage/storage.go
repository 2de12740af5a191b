// Package storage provides the small persistent key-value store the runtime
// uses for user preferences such as the selected theme.
package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-drift/dtkit/pkg/errors"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the store. Further calls return errors.ErrClosed.
	Close() error
}

// Kind names a store implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// Open creates a store of the given kind. path is ignored for memory stores.
func Open(kind Kind, path string) (KV, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindFile:
		return OpenFileStore(path)
	case KindSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, &errors.RuntimeError{
			Op:   "storage.Open",
			Kind: errors.KindStorage,
			Err:  fmt.Errorf("unknown store kind %q", kind),
		}
	}
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &errors.RuntimeError{Op: op, Kind: errors.KindStorage, Err: err}
}

// MemoryStore keeps values in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, errors.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
