package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/response"
)

const identityKey = "identity"

// TokenValidator resolves a bearer token to its identity.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*entity.Identity, error)
}

// TokenAuth reads the session token from header, validates it and stores the
// identity in the Gin context. Requests without a valid token stop here with 401.
func TokenAuth(header string, v TokenValidator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
		if token == "" {
			response.FromError(c, logger, apperror.ErrMissingToken)
			return
		}
		identity, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, logger, err)
			return
		}
		c.Set(identityKey, identity)
		c.Set("userID", identity.ID)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by TokenAuth.
func CurrentIdentity(c *gin.Context) (*entity.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*entity.Identity)
	return identity, ok && identity != nil
}
