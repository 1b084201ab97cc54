// Package localstore provides the key-value persistence surface the pipeline
// uses for its rate-limit stamp, offline queue, attribution snapshot and form
// drafts. The pipeline treats every operation as best-effort: a failing store
// degrades behavior (no cooldown enforcement, no offline queueing) but never
// fails a submission.
package localstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is the persistence port. Values are opaque strings; keys are
// namespaced by the implementation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Well-known keys. A single namespace serves all forms on the page, which
// matches the source behavior of one shared rate-limit stamp.
const (
	KeyLastSubmit   = "last_lead_submit"
	KeyOfflineQueue = "offline_leads"
	KeyAttribution  = "attribution"
	KeyFormDraft    = "lead_form_draft"
)

// MemoryStore is an in-process Store for tests and single-node development.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
