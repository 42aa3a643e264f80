package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gane/internal/common"
)

// ErrDuplicateID reports a user ID collision. It is an internal failure and
// never means the email is taken.
var ErrDuplicateID = fmt.Errorf("%w: duplicate user id", common.ErrorInternal)

// InMemoryRepository keeps users for the lifetime of the process.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by ID
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByEmailLocked(user.Email) != nil {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.users[user.ID]; ok {
		return nil, ErrDuplicateID
	}

	stored := *user
	r.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.findByEmailLocked(email)
	if u == nil {
		return nil, common.ErrorNotFound
	}

	out := *u
	return &out, nil
}

// Len reports the number of stored users.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// linear scan; the store is small and has no secondary index
func (r *InMemoryRepository) findByEmailLocked(email string) *User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
