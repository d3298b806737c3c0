package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/transport/http/cookies"
)

// Context keys set by the gates for downstream handlers.
const (
	ContextUserKey        = "user"
	ContextUserIDKey      = "userID"
	ContextTransactionKey = "transaction"
)

const errUnauthorized = "Unauthorized"

// accessVerifier is the subset of the token manager the gate needs.
type accessVerifier interface {
	VerifyAccess(token string) (string, error)
}

// userFinder is the subset of the user service the gate needs.
type userFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth is the authentication gate: it extracts the access-token cookie,
// verifies it, resolves the subject to a user, and attaches the user to the
// request context.
//
// A missing or failed access token answers with an {"action": "refresh"}
// hint: the token's natural failure mode is its 15-minute expiry, and the
// client should try the refresh flow before falling back to a full login.
// If the subject no longer exists the hint is dropped, since refreshing a
// session for a deleted account cannot help.
func Auth(cm *cookies.Manager, verifier accessVerifier, users userFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := cm.AccessToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": errUnauthorized, "action": "refresh"})
			return
		}

		subject, err := verifier.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedToken) {
				// Valid signature, nonsense payload: a token from an
				// incompatible issuer, not an expired session.
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": errUnauthorized, "action": "refresh"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// UserFromContext returns the authenticated user attached by Auth.
func UserFromContext(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
