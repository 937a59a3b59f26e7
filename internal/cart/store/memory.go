package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// MemoryStore implements CartStore using an in-memory map of raw JSON
// payloads, mirroring the browser localStorage collaborator it stands in for.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	logger *slog.Logger
}

// NewMemoryStore creates a new in-memory CartStore.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		logger: logger.With("component", "memory_store"),
	}
}

// Load returns the cart stored under key; absent or malformed payloads read
// as an empty cart.
func (s *MemoryStore) Load(_ context.Context, key string) ([]LineItem, error) {
	s.mu.RLock()
	raw := s.data[key]
	s.mu.RUnlock()

	return decodeItems(raw, s.logger, key), nil
}

// Save replaces the cart stored under key.
func (s *MemoryStore) Save(_ context.Context, key string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Put stores a raw payload under key, bypassing encoding. Used to seed
// pre-existing (possibly malformed) state.
func (s *MemoryStore) Put(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
