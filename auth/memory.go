package auth

import (
	"context"
	"strings"
	"sync"
)

// MemoryUserRepository keeps users in process memory. Intended for tests,
// prototypes, and single-node tools; production deployments use the pg
// adapter.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user. Fails with ErrEmailTaken when the email is
// already registered.
func (r *MemoryUserRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return ErrEmailTaken
	}
	if _, exists := r.byID[user.ID]; exists {
		return ErrEmailTaken
	}

	r.byID[user.ID] = user
	r.byEmail[email] = user.ID
	return nil
}

// GetByID returns the user with the given id or ErrUserNotFound.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// GetByEmail returns the user with the given email or ErrUserNotFound.
// Lookup is case-insensitive.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

// Update replaces the stored user. Fails with ErrUserNotFound for unknown
// ids and ErrEmailTaken when the new email belongs to another user.
func (r *MemoryUserRepository) Update(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return ErrUserNotFound
	}

	oldEmail := strings.ToLower(current.Email)
	newEmail := strings.ToLower(user.Email)
	if oldEmail != newEmail {
		if owner, taken := r.byEmail[newEmail]; taken && owner != user.ID {
			return ErrEmailTaken
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[newEmail] = user.ID
	}

	r.byID[user.ID] = user
	return nil
}

// Delete removes the user or fails with ErrUserNotFound.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, strings.ToLower(user.Email))
	return nil
}
