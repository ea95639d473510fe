// Package csrf implements one-time CSRF tokens for state-changing record
// operations.
//
// A token is bound to the session it was issued for and is consumed
// atomically on first validation: two concurrent requests presenting the same
// token can never both pass. Tokens expire after the configured lifetime
// whether or not they were used.
package csrf

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kart-io/recordguard/pkg/utils/errors"
)

const tokenBytes = 32

// Manager issues and validates one-time CSRF tokens.
type Manager struct {
	opts  *Options
	store Store

	// now is injectable for tests.
	now func() time.Time
}

// New creates a CSRF Manager backed by the given store.
func New(opts *Options, store Store) (*Manager, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("csrf store is required")
	}

	return &Manager{
		opts:  opts,
		store: store,
		now:   time.Now,
	}, nil
}

// Issue creates a fresh token bound to the given session. Issuing a new token
// does not invalidate previously issued ones; each remains independently
// usable once until it expires.
func (m *Manager) Issue(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.ErrInvalidParam.WithMessage("session id is required")
	}

	token, err := generateToken()
	if err != nil {
		return "", errors.ErrInternal.WithCause(err)
	}

	if err := m.store.Put(ctx, sessionID, token, m.now(), m.opts.Lifetime); err != nil {
		return "", errors.ErrCache.WithCause(err)
	}
	return token, nil
}

// Validate consumes the token for the given session. The take is atomic: the
// token is removed from the store in the same step that checks it, so it can
// pass validation at most once. Any store failure rejects the token.
func (m *Manager) Validate(ctx context.Context, sessionID, token string) error {
	if sessionID == "" || token == "" {
		return errors.ErrCSRFTokenInvalid
	}

	issuedAt, ok, err := m.store.Take(ctx, sessionID, token)
	if err != nil {
		return errors.ErrCSRFTokenInvalid.WithCause(err)
	}
	if !ok {
		return errors.ErrCSRFTokenInvalid
	}
	if m.now().Sub(issuedAt) > m.opts.Lifetime {
		return errors.ErrCSRFTokenInvalid
	}
	return nil
}

// Lifetime reports how long issued tokens stay valid.
func (m *Manager) Lifetime() time.Duration {
	return m.opts.Lifetime
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
