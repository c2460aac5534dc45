package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// TokenIssuer mints session tokens bound to an identity's password epoch.
type TokenIssuer struct {
	jwt *helpers.JWTManager
}

func NewTokenIssuer(jwt *helpers.JWTManager) *TokenIssuer {
	return &TokenIssuer{jwt: jwt}
}

func (i *TokenIssuer) Issue(identityID string, passwordEpoch int64) (string, error) {
	return i.jwt.GenerateToken(identityID, passwordEpoch)
}

// TokenValidator turns a bearer token back into the identity it was issued to.
// Every call performs one identity read, so a password change invalidates
// older tokens as soon as it is committed.
type TokenValidator struct {
	jwt        *helpers.JWTManager
	identities repo.IdentityRepository
}

func NewTokenValidator(jwt *helpers.JWTManager, identities repo.IdentityRepository) *TokenValidator {
	return &TokenValidator{jwt: jwt, identities: identities}
}

func (v *TokenValidator) Validate(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, apperror.ErrMissingToken
	}
	claims, err := v.jwt.ParseToken(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	identity, err := v.identities.FindByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if identity.PasswordEpoch != claims.PasswordEpoch {
		return nil, apperror.ErrTokenExpired
	}
	return identity, nil
}
