package biz

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/security/session"
	"github.com/kart-io/recordguard/pkg/utils/errors"
)

// Requester is the resolved identity of the caller, produced once per
// request and passed explicitly through the decision pipeline. It is never
// persisted.
type Requester struct {
	ID        uint64
	Role      model.Role
	Active    bool
	SessionID string
}

// IdentityService resolves verified session claims into a Requester.
type IdentityService struct {
	store store.Factory
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(store store.Factory) *IdentityService {
	return &IdentityService{store: store}
}

// Resolve looks up the staff account behind the session claims. The role is
// re-read from the staff record; the role hint carried in the token is never
// trusted for authorization. Missing, unreadable, or disabled accounts all
// resolve to ErrIdentityUnresolved.
func (s *IdentityService) Resolve(ctx context.Context, claims *session.Claims) (*Requester, error) {
	if claims == nil {
		return nil, errors.ErrIdentityUnresolved
	}

	staff, err := s.store.Staff().Get(ctx, claims.AccountID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrIdentityUnresolved
		}
		return nil, errors.ErrIdentityUnresolved.WithCause(err)
	}

	if !staff.Active() {
		return nil, errors.ErrIdentityUnresolved
	}

	return &Requester{
		ID:        staff.ID,
		Role:      model.ParseRole(staff.Role.String()),
		Active:    true,
		SessionID: claims.SessionID,
	}, nil
}
