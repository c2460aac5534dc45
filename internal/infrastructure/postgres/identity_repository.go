package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

type IdentityRepository struct {
	db DBTX
}

var _ repo.IdentityRepository = (*IdentityRepository)(nil)

func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id::text, user_name, pwd_hash, password_epoch, created_at`

func scanIdentity(row pgx.Row) (*entity.Identity, error) {
	i := &entity.Identity{}
	if err := row.Scan(&i.ID, &i.Handle, &i.CredentialHash, &i.PasswordEpoch, &i.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return i, nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*entity.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repo.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanIdentity(row)
}

func (r *IdentityRepository) FindByHandle(ctx context.Context, handle string) (*entity.Identity, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM users
		WHERE user_name = $1
	`, handle)
	return scanIdentity(row)
}

func (r *IdentityRepository) Insert(ctx context.Context, i *entity.Identity) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, user_name, pwd_hash, password_epoch, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, i.ID, i.Handle, i.CredentialHash, i.PasswordEpoch, i.CreatedAt)
	if isPgCode(err, uniqueViolation) {
		return repo.ErrDuplicateHandle
	}
	return err
}

// UpdateCredential lets the database pick max(epoch, stored+1) so that the
// epoch advances even when two changes race.
func (r *IdentityRepository) UpdateCredential(ctx context.Context, id, hash string, epoch int64) (int64, error) {
	var written int64
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET pwd_hash = $2, password_epoch = GREATEST($3::bigint, password_epoch + 1)
		WHERE id = $1
		RETURNING password_epoch
	`, id, hash, epoch).Scan(&written)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repo.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Delete removes the identity's tasks and then the identity in one transaction.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM todos WHERE owner = $1`, id); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
