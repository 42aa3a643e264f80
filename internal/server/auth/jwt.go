// Package auth mints and validates the self-contained bearer tokens handed
// out by gane. Tokens are HS256 JWTs; nothing about them is stored
// server-side, so signature and expiry alone decide validity.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by every token: sub, exp, email and is_guest.
// A registered user's claims always carry the email; a guest's never do.
type Claims struct {
	jwt.RegisteredClaims
	Email   *string `json:"email"`
	IsGuest bool    `json:"is_guest"`
}

// consistent reports whether exactly one of "has email" and "is guest" holds.
func (c *Claims) consistent() bool {
	if c.Subject == "" {
		return false
	}
	if c.IsGuest {
		return c.Email == nil
	}
	return c.Email != nil && *c.Email != ""
}

type Option func(*TokenService)

// WithClock replaces time.Now for both issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// TokenService is safe for concurrent use; it holds no mutable state.
type TokenService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(secret []byte, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty secret key")
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	return s, nil
}

// Issue signs a token for subject that expires ttl from now. email must be nil
// for guests and set for registered users.
func (s *TokenService) Issue(subject string, email *string, guest bool, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		},
		Email:   email,
		IsGuest: guest,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}

	return tokenString, nil
}

// Validate checks signature, algorithm and expiry and returns the decoded
// claims. Every failure, whatever the cause, is common.ErrorUnauthorized.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, common.ErrorUnauthorized
	}

	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrorUnauthorized
	}

	if !claims.consistent() {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}
