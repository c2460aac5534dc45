package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

// TaskRepository defines the storage operations for tasks.
// Update and Delete are scoped by both id and owner.
type TaskRepository interface {
	Find(ctx context.Context, id int64) (*entity.Task, error)
	FindByOwner(ctx context.Context, owner string) ([]entity.Task, error)
	Insert(ctx context.Context, t *entity.Task) error
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id int64, owner string) error
}
