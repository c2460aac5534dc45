package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateHandle is returned when inserting an identity whose handle is taken.
	ErrDuplicateHandle = errors.New("duplicate handle")
)

// IdentityRepository defines the storage operations for identities.
type IdentityRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Identity, error)
	FindByHandle(ctx context.Context, handle string) (*entity.Identity, error)
	Insert(ctx context.Context, i *entity.Identity) error
	// UpdateCredential stores a new hash and an epoch of at least the given value,
	// strictly greater than the stored one. It returns the epoch actually written.
	UpdateCredential(ctx context.Context, id, hash string, epoch int64) (int64, error)
	// Delete removes the identity and every task it owns in one transaction.
	Delete(ctx context.Context, id string) error
}
