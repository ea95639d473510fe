package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/pkg/middleware"
	"github.com/kart-io/recordguard/pkg/security/csrf"
	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/response"
)

// CSRFHandler issues one-time tokens for the calling session.
type CSRFHandler struct {
	identity *biz.IdentityService
	csrf     *csrf.Manager
}

// NewCSRFHandler creates a new CSRFHandler.
func NewCSRFHandler(identity *biz.IdentityService, csrfMgr *csrf.Manager) *CSRFHandler {
	return &CSRFHandler{identity: identity, csrf: csrfMgr}
}

// Issue handles GET /v1/csrf/token.
func (h *CSRFHandler) Issue(c *gin.Context) {
	claims, _ := middleware.GetSessionClaims(c)
	requester, err := h.identity.Resolve(c.Request.Context(), claims)
	if err != nil {
		response.Write(c, errors.ErrIdentityUnresolved, nil)
		return
	}

	token, err := h.csrf.Issue(c.Request.Context(), requester.SessionID)
	if err != nil {
		response.Write(c, err, nil)
		return
	}

	response.Write(c, nil, gin.H{
		"csrf_token": token,
		"expires_in": int(h.csrf.Lifetime().Seconds()),
	})
}
