package users

import (
	"context"
)

// Repository is the storage boundary of the credential store.
//
// Create must check email uniqueness and insert as one atomic step with
// respect to other Create calls, returning common.ErrorAlreadyExists when the
// email is taken. GetUserByEmail returns common.ErrorNotFound when absent.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
