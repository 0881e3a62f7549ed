// Package auth issues and verifies admin bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/config"
)

const issuer = "agency-backoffice"

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager checks the single configured admin account and signs HS256 tokens.
type Manager struct {
	secret       []byte
	ttl          time.Duration
	adminEmail   string
	passwordHash []byte
	now          func() time.Time
}

func NewManager(cfg config.Auth, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}

	return &Manager{
		secret:       []byte(cfg.JWTSecret),
		ttl:          cfg.TokenTTL,
		adminEmail:   cfg.AdminEmail,
		passwordHash: []byte(cfg.AdminPasswordHash),
		now:          now,
	}
}

// Login returns apperrors.ErrUnauthorized for any credential mismatch.
func (m *Manager) Login(email, password string) (*Token, error) {
	const op = "internal.auth.Login"

	if !strings.EqualFold(strings.TrimSpace(email), m.adminEmail) {
		return nil, apperrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrUnauthorized
		}

		return nil, fmt.Errorf("%s: failed to compare password: %w", op, err)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		Email: m.adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   m.adminEmail,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sign token: %w", op, err)
	}

	return &Token{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Verify parses a bearer token. Every failure wraps apperrors.ErrUnauthorized.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	return claims, nil
}

// HashPassword produces the value for auth.admin_password_hash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(b), nil
}
