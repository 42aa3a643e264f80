// Package users is the credential store: it registers accounts, looks them
// up by email and verifies passwords against their bcrypt hashes.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

const (
	msgInvalidEmail     = "Invalid email address"
	msgPasswordTooShort = "Password must be at least 6 characters"
	msgPasswordTooLong  = "Password must be at most 72 characters"
)

type Option func(*Service)

// WithClock sets the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the uuid v4 generator.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

type Service struct {
	repo       Repository
	bcryptCost int
	now        func() time.Time
	newID      func() (string, error)
}

func NewService(repo Repository, bcryptCost int, opts ...Option) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	s := &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        time.Now,
		newID:      NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a random (v4) UUID string.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Register validates input, hashes the password and stores a new user.
//
// Hashing happens before the repository takes its write lock; the repository
// then re-checks the email and inserts atomically, so of two concurrent
// registrations for one email exactly one succeeds.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	// fail fast before paying for bcrypt
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: generate id: %v", common.ErrorInternal, err)
	}

	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *Service) VerifyPassword(storedHash, candidate string) (bool, error) {
	return VerifyPassword(storedHash, candidate)
}

// DummyHash returns a hash of a throwaway password at the service's cost, used
// to spend the same effort on logins for unknown emails.
func (s *Service) DummyHash() (string, error) {
	return hashPassword("gane-dummy-password", s.bcryptCost)
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return common.NewValidationError("email", msgInvalidEmail)
	}
	if len(password) < minPasswordLength {
		return common.NewValidationError("password", msgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		return common.NewValidationError("password", msgPasswordTooLong)
	}
	return nil
}
