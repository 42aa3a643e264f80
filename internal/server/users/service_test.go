package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	return NewService(repo, bcrypt.MinCost, opts...), repo
}

type failingRepo struct {
	getErr    error
	createErr error
}

func (f *failingRepo) Create(context.Context, *User) (*User, error) { return nil, f.createErr }
func (f *failingRepo) GetUserByEmail(context.Context, string) (*User, error) {
	return nil, f.getErr
}

func TestService_Register(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	s, repo := newTestService(t,
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() (string, error) { return "fixed-id", nil }),
	)

	u, err := s.Register(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, now.UTC(), u.CreatedAt)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
	assert.NotContains(t, u.PasswordHash, "secret1")
	assert.Equal(t, 1, repo.Len())

	ok, err := s.VerifyPassword(u.PasswordHash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_Register_GeneratesUUIDs(t *testing.T) {
	s, _ := newTestService(t)

	a, err := s.Register(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	b, err := s.Register(context.Background(), "c@d.com", "secret1")
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestService_Register_Validation(t *testing.T) {
	s, repo := newTestService(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "empty email", email: "", password: "secret1", wantMsg: "Invalid email address"},
		{name: "no at sign", email: "ab.com", password: "secret1", wantMsg: "Invalid email address"},
		{name: "short password", email: "a@b.com", password: "12345", wantMsg: "Password must be at least 6 characters"},
		{name: "empty password", email: "a@b.com", password: "", wantMsg: "Password must be at least 6 characters"},
		{name: "too long password", email: "a@b.com", password: strings.Repeat("x", 73), wantMsg: "Password must be at most 72 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, common.ErrorValidation)

			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
	assert.Equal(t, 0, repo.Len())
}

func TestService_Register_PasswordLengthBoundaries(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Register(context.Background(), "six@b.com", "123456")
	assert.NoError(t, err)

	_, err = s.Register(context.Background(), "max@b.com", strings.Repeat("x", 72))
	assert.NoError(t, err)
}

func TestService_Register_Duplicate(t *testing.T) {
	s, repo := newTestService(t)

	_, err := s.Register(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "a@b.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, 1, repo.Len())
}

func TestService_Register_ConcurrentSameEmail(t *testing.T) {
	s, repo := newTestService(t)

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.Register(context.Background(), "race@b.com", "secret1")
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrorAlreadyExists):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
	assert.Equal(t, 1, repo.Len())
}

func TestService_Register_RepositoryErrors(t *testing.T) {
	boom := errors.New("boom")

	s := NewService(&failingRepo{getErr: boom}, bcrypt.MinCost)
	_, err := s.Register(context.Background(), "a@b.com", "secret1")
	assert.ErrorIs(t, err, boom)

	s = NewService(&failingRepo{getErr: common.ErrorNotFound, createErr: boom}, bcrypt.MinCost)
	_, err = s.Register(context.Background(), "a@b.com", "secret1")
	assert.ErrorIs(t, err, boom)

	s = NewService(&failingRepo{getErr: common.ErrorNotFound, createErr: common.ErrorAlreadyExists}, bcrypt.MinCost)
	_, err = s.Register(context.Background(), "a@b.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestService_Register_IDGeneratorFailure(t *testing.T) {
	s, repo := newTestService(t, WithIDGenerator(func() (string, error) { return "", errors.New("no entropy") }))

	_, err := s.Register(context.Background(), "a@b.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Equal(t, 0, repo.Len())
}

func TestService_FindByEmail(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.FindByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	created, err := s.Register(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	found, err := s.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestService_DummyHash(t *testing.T) {
	s, _ := newTestService(t)

	hash, err := s.DummyHash()
	require.NoError(t, err)

	ok, err := s.VerifyPassword(hash, "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Register_IDCollisionIsInternal(t *testing.T) {
	s, repo := newTestService(t, WithIDGenerator(func() (string, error) { return "same-id", nil }))
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "c@d.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, 1, repo.Len())
}
