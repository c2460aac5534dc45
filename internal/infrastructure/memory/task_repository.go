package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

type TaskRepository struct {
	s *Store
}

var _ repo.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) Find(_ context.Context, id int64) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

// FindByOwner returns the owner's tasks ordered by id.
func (r *TaskRepository) FindByOwner(_ context.Context, owner string) ([]entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Task, 0)
	for _, t := range r.s.tasks {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *TaskRepository) Insert(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// tasks reference their owner like the foreign key in postgres
	if _, ok := r.s.identities[t.Owner]; !ok {
		return repo.ErrNotFound
	}
	r.s.lastTaskID++
	t.ID = r.s.lastTaskID
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tasks[t.ID]
	if !ok || cur.Owner != t.Owner {
		return repo.ErrNotFound
	}
	cur.Text = t.Text
	cur.Done = t.Done
	r.s.tasks[t.ID] = cur
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id int64, owner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tasks[id]
	if !ok || cur.Owner != owner {
		return repo.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}
