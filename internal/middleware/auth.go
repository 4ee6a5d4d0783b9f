package middleware

import (
	"context"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/jwt"
	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/services/auth"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Required rejects requests without a valid bearer token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := jwt.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Err(c, auth.ErrMissingToken)
			return
		}

		principal, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Err(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Optional attaches the principal when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := jwt.BearerToken(c.GetHeader("Authorization")); token != "" {
			if principal, err := m.auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal set by the auth middleware.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}
