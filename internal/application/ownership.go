package application

import (
	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

// OwnershipGuard hides tasks from everyone but their owner. A task owned by
// someone else is reported exactly like a missing one.
type OwnershipGuard struct{}

func (OwnershipGuard) Authorize(identity *entity.Identity, task *entity.Task) (*entity.Task, error) {
	if identity == nil || task == nil || !task.OwnedBy(identity.ID) {
		return nil, apperror.ErrTaskNotFound
	}
	return task, nil
}
