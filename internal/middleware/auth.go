package middleware

import (
	"context"
	"errors"
	"net/http"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"

	"github.com/gin-gonic/gin"
)

const ContextIdentityKey = "identity"

type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (auth.Identity, error)
}

// Authenticate resolves the bearer token on every request and stores the identity in the context.
func Authenticate(r IdentityResolver) gin.HandlerFunc {
	log := logger.Named("auth")
	return func(c *gin.Context) {
		id, err := r.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case err == nil:
			c.Set(ContextIdentityKey, id)
			c.Next()
		case errors.Is(err, auth.ErrNoToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
		case errors.Is(err, auth.ErrTokenFailed):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		default:
			log.Errorw("resolve identity", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		}
	}
}

// Require lets the request through only when the caller's role is in set. It must run after Authenticate.
func Require(set auth.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(PrincipalFrom(c), set); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": err.Error()})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// PrincipalFrom returns nil for unauthenticated requests.
func PrincipalFrom(c *gin.Context) auth.Principal {
	id, ok := IdentityFrom(c)
	if !ok {
		return nil
	}
	return id.Principal()
}
