package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/recordguard/pkg/security/session"
	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/response"
)

// Context keys set by the Auth middleware.
const (
	ContextKeySessionClaims = "session_claims"
	ContextKeySessionToken  = "session_token"
)

const sessionCookieName = "rg_session"

// Auth returns a middleware that verifies the session token carried by the
// request and stores the resulting claims in the gin context. Requests with
// a missing, malformed, revoked, or expired token are rejected with 401.
//
// The token is read from the Authorization header ("Bearer <token>") first,
// then from the session cookie.
func Auth(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Write(c, errors.ErrUnauthorized, nil)
			c.Abort()
			return
		}

		claims, err := mgr.Verify(c.Request.Context(), token)
		if err != nil {
			response.Write(c, err, nil)
			c.Abort()
			return
		}

		c.Set(ContextKeySessionClaims, claims)
		c.Set(ContextKeySessionToken, token)

		c.Next()
	}
}

// GetSessionClaims returns the verified session claims from the gin context.
func GetSessionClaims(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(ContextKeySessionClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	// A malformed Authorization header does not shadow the cookie.
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		return cookie
	}
	return ""
}
