package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/dmitrijs2005/gane/internal/server/auth"
	"github.com/dmitrijs2005/gane/internal/server/users"
)

// CredentialStore is what AuthService needs from the user registry.
type CredentialStore interface {
	Register(ctx context.Context, email, password string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	VerifyPassword(storedHash, candidate string) (bool, error)
}

// TokenIssuer mints and validates bearer tokens.
type TokenIssuer interface {
	Issue(subject string, email *string, guest bool, ttl time.Duration) (string, error)
	Validate(token string) (*auth.Claims, error)
}

// PublicUser is the user view returned to clients.
type PublicUser struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	IsGuest   bool    `json:"is_guest"`
	CreatedAt string  `json:"created_at"`
}

type AuthResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// TokenTTLs holds session lifetimes per kind.
type TokenTTLs struct {
	Registered time.Duration
	Guest      time.Duration
}

// AuthService orchestrates the credential store and the token issuer. It
// keeps no state of its own besides configuration.
type AuthService struct {
	store     CredentialStore
	tokens    TokenIssuer
	ttls      TokenTTLs
	now       func() time.Time
	newID     func() (string, error)
	dummyHash string
	onIssue   func(kind string)
}

// Token kinds reported to the issue observer.
const (
	KindRegistered = "registered"
	KindGuest      = "guest"
)

type AuthOption func(*AuthService)

func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() (string, error)) AuthOption {
	return func(s *AuthService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithDummyHash sets the hash checked when a login names an unknown email, so
// that path costs as much as a wrong password.
func WithDummyHash(hash string) AuthOption {
	return func(s *AuthService) {
		s.dummyHash = hash
	}
}

// WithIssueObserver registers fn to be called with the token kind after every
// successful issuance.
func WithIssueObserver(fn func(kind string)) AuthOption {
	return func(s *AuthService) {
		s.onIssue = fn
	}
}

func NewAuthService(store CredentialStore, tokens TokenIssuer, ttls TokenTTLs, opts ...AuthOption) *AuthService {
	s := &AuthService{
		store:  store,
		tokens: tokens,
		ttls:   ttls,
		now:    time.Now,
		newID:  users.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.issueRegistered(user)
}

// Login never reveals whether the email or the password was wrong: both cases
// return common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnDummyVerify(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	ok, err := s.store.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.issueRegistered(user)
}

func (s *AuthService) Guest(ctx context.Context) (*AuthResult, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: generate id: %v", common.ErrorInternal, err)
	}

	token, err := s.tokens.Issue(id, nil, true, s.ttls.Guest)
	if err != nil {
		return nil, err
	}
	s.observe(KindGuest)

	return &AuthResult{
		Token: token,
		User: PublicUser{
			ID:        id,
			Email:     nil,
			IsGuest:   true,
			CreatedAt: formatTime(s.now()),
		},
	}, nil
}

// CurrentUser decodes token without consulting the credential store.
// Claims carry no issuance time, so CreatedAt is the time of this call.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*PublicUser, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	return &PublicUser{
		ID:        claims.Subject,
		Email:     claims.Email,
		IsGuest:   claims.IsGuest,
		CreatedAt: formatTime(s.now()),
	}, nil
}

// Logout is an acknowledgement only; issued tokens stay valid until expiry.
func (s *AuthService) Logout(ctx context.Context) error {
	return nil
}

func (s *AuthService) issueRegistered(user *users.User) (*AuthResult, error) {
	email := user.Email

	token, err := s.tokens.Issue(user.ID, &email, false, s.ttls.Registered)
	if err != nil {
		return nil, err
	}
	s.observe(KindRegistered)

	return &AuthResult{
		Token: token,
		User: PublicUser{
			ID:        user.ID,
			Email:     &email,
			IsGuest:   false,
			CreatedAt: formatTime(user.CreatedAt),
		},
	}, nil
}

func (s *AuthService) burnDummyVerify(password string) {
	if s.dummyHash == "" {
		return
	}
	_, _ = s.store.VerifyPassword(s.dummyHash, password)
}

func (s *AuthService) observe(kind string) {
	if s.onIssue != nil {
		s.onIssue(kind)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
