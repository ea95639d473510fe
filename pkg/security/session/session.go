// Package session provides verification of the session tokens that carry the
// authenticated caller's identity into the record-access pipeline.
//
// The session provider itself (login, logout, session creation) is an
// external collaborator; this package only signs tokens on its behalf in
// tests and verifies them on inbound requests. Verification supports token
// revocation via a pluggable store interface.
//
// Usage:
//
//	mgr, err := session.New(
//	    session.WithKey("your-secret-key-min-32-chars-long"),
//	    session.WithExpired(2 * time.Hour),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	claims, err := mgr.Verify(ctx, tokenString)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/kart-io/recordguard/pkg/utils/errors"
)

// Claims carries the identity extracted from a verified session token.
type Claims struct {
	// AccountID is the staff account the session belongs to.
	AccountID uint64

	// SessionID is the unique session identifier (jti claim).
	SessionID string

	// RoleHint is the role recorded at sign time. It is a hint only:
	// authorization always re-reads the role from the staff record.
	RoleHint string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Manager signs and verifies session tokens.
type Manager struct {
	opts   *Options
	store  Store
	method jwt.SigningMethod
}

// Option is a functional option for the session Manager.
type Option func(*Manager)

// New creates a new session Manager.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		opts: NewOptions(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete options: %w", err)
	}
	if err := m.opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}

	m.method = jwt.GetSigningMethod(m.opts.SigningMethod)
	if m.method == nil {
		return nil, fmt.Errorf("unsupported signing method: %s", m.opts.SigningMethod)
	}

	return m, nil
}

// WithOptions sets the session options.
func WithOptions(opts *Options) Option {
	return func(m *Manager) {
		if opts != nil {
			m.opts = opts
		}
	}
}

// WithKey sets the signing key.
func WithKey(key string) Option {
	return func(m *Manager) {
		m.opts.Key = key
	}
}

// WithExpired sets the token expiration duration.
func WithExpired(d time.Duration) Option {
	return func(m *Manager) {
		m.opts.Expired = d
	}
}

// WithIssuer sets the token issuer.
func WithIssuer(issuer string) Option {
	return func(m *Manager) {
		m.opts.Issuer = issuer
	}
}

// WithStore sets the token store for revocation support.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// Sign creates a new session token for the given account.
func (m *Manager) Sign(ctx context.Context, accountID uint64, role string) (string, error) {
	now := time.Now()

	sessionID, err := generateSessionID()
	if err != nil {
		return "", err
	}

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(accountID, 10),
			Issuer:    m.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.Expired)),
			ID:        sessionID,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString([]byte(m.opts.Key))
}

// Verify validates a session token and returns the claims it carries.
// Revoked, expired, or malformed tokens fail with ErrInvalidToken.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.ErrInvalidToken
	}

	if m.store != nil {
		revoked, err := m.store.IsRevoked(ctx, tokenString)
		if err != nil {
			// Revocation state unknown: treat the token as invalid.
			return nil, errors.ErrInvalidToken.WithCause(err)
		}
		if revoked {
			return nil, errors.ErrInvalidToken
		}
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(m.opts.Key), nil
	})
	if err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err)
	}

	return &Claims{
		AccountID: accountID,
		SessionID: claims.ID,
		RoleHint:  claims.Role,
	}, nil
}

// Revoke marks a session token as revoked for its remaining lifetime.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	if m.store == nil {
		return nil
	}
	return m.store.Revoke(ctx, tokenString, m.opts.Expired)
}

// generateSessionID generates a random session identifier.
func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
