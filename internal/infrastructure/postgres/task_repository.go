package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

type TaskRepository struct {
	db DBTX
}

var _ repo.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Find(ctx context.Context, id int64) (*entity.Task, error) {
	t := &entity.Task{}
	err := r.db.QueryRow(ctx, `
		SELECT id, todo, done, created_at, owner::text
		FROM todos
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Text, &t.Done, &t.CreatedAt, &t.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) FindByOwner(ctx context.Context, owner string) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, todo, done, created_at, owner::text
		FROM todos
		WHERE owner = $1
		ORDER BY id
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Done, &t.CreatedAt, &t.Owner); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Insert(ctx context.Context, t *entity.Task) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO todos (todo, done, created_at, owner)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, t.Text, t.Done, t.CreatedAt, t.Owner).Scan(&t.ID)
	// the owner was deleted after its token was validated
	if isPgCode(err, foreignKeyViolation) {
		return repo.ErrNotFound
	}
	return err
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE todos
		SET todo = $3, done = $4
		WHERE id = $1 AND owner = $2
	`, t.ID, t.Owner, t.Text, t.Done)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, owner string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
