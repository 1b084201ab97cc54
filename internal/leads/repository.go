package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the remote-store operations the pipeline consumes.
type Repository interface {
	Insert(ctx context.Context, payload *NewLead) (*Lead, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Ping reports whether the store is currently reachable. The pipeline
	// consults it only after retries are exhausted, to decide between
	// surfacing an error and queueing the payload offline.
	Ping(ctx context.Context) error
}

// InMemoryRepository is a Repository backed by a map, for tests and local
// development without Postgres.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*Lead
	pingErr error
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*Lead)}
}

// Insert stores a new lead, enforcing email uniqueness like the real store.
func (r *InMemoryRepository) Insert(ctx context.Context, payload *NewLead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := NormalizeEmail(payload.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	lead := &Lead{
		ID:          uuid.New().String(),
		Name:        payload.Name,
		Email:       email,
		Phone:       payload.Phone,
		Birthday:    payload.Birthday,
		Preferences: payload.Preferences,
		PromoCode:   payload.PromoCode,
		CreatedAt:   time.Now().UTC(),
	}
	r.byEmail[email] = lead
	return lead, nil
}

// ExistsByEmail reports whether a lead with the given email exists.
func (r *InMemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[NormalizeEmail(email)]
	return ok, nil
}

// Ping succeeds unless a failure was injected with SetPingErr.
func (r *InMemoryRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pingErr
}

// SetPingErr makes subsequent Ping calls fail. Test helper.
func (r *InMemoryRepository) SetPingErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingErr = err
}

// Count returns the number of stored leads. Test helper.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
