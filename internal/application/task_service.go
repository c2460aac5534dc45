package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 100
)

var (
	ErrTaskTextRequired = apperror.Validation("todo text is required")
	ErrEmptyTaskPatch   = apperror.Validation("Provide proper values for todo item.")
)

// TaskService manages an identity's own tasks. Every read and mutation of a
// single task goes through the OwnershipGuard.
type TaskService struct {
	Tasks    repo.TaskRepository
	Guard    OwnershipGuard
	Index    TaskIndex
	Exporter TaskExporter
	Logger   *logrus.Logger

	now func() time.Time
}

func NewTaskService(tasks repo.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Logger: logger, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, owner *entity.Identity, text string) (*entity.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTaskTextRequired
	}
	t := &entity.Task{
		Text:      text,
		CreatedAt: s.now().UTC(),
		Owner:     owner.ID,
	}
	if err := s.Tasks.Insert(ctx, t); err != nil {
		// owner deleted between token validation and insert
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.ErrInvalidToken
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}
	s.index(ctx, *t)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, owner *entity.Identity) ([]entity.Task, error) {
	tasks, err := s.Tasks.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, owner *entity.Identity, id int64) (*entity.Task, error) {
	t, err := s.Tasks.Find(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return s.Guard.Authorize(owner, t)
}

func (s *TaskService) Update(ctx context.Context, owner *entity.Identity, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	if patch.Empty() {
		return nil, ErrEmptyTaskPatch
	}
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return nil, ErrTaskTextRequired
	}
	t, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	if err := s.Tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.index(ctx, *t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, owner *entity.Identity, id int64) error {
	t, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.Tasks.Delete(ctx, t.ID, owner.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if s.Index != nil {
		if iErr := s.Index.Remove(ctx, t.ID); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("task_id", t.ID).Warn("remove task from index failed")
		}
	}
	return nil
}

// Search finds the caller's tasks whose text contains query. The index only
// proposes candidates; each one is re-read and authorized.
func (s *TaskService) Search(ctx context.Context, owner *entity.Identity, query string, size int) ([]entity.Task, error) {
	if size <= 0 {
		size = DefaultSearchSize
	}
	if size > MaxSearchSize {
		size = MaxSearchSize
	}
	query = strings.TrimSpace(query)

	if s.Index != nil && query != "" {
		ids, err := s.Index.Search(ctx, owner.ID, query, size)
		if err == nil {
			return s.resolveHits(ctx, owner, ids)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("task index search failed; scanning owner tasks")
		}
	}

	tasks, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	out := make([]entity.Task, 0, size)
	for _, t := range tasks {
		if len(out) == size {
			break
		}
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskService) resolveHits(ctx context.Context, owner *entity.Identity, ids []int64) ([]entity.Task, error) {
	out := make([]entity.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, owner, id)
		if errors.Is(err, apperror.ErrTaskNotFound) {
			// stale or foreign hit
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// Export uploads a snapshot of the caller's tasks and returns its location.
func (s *TaskService) Export(ctx context.Context, owner *entity.Identity) (string, error) {
	if s.Exporter == nil {
		return "", ErrExportUnavailable
	}
	tasks, err := s.List(ctx, owner)
	if err != nil {
		return "", err
	}
	url, err := s.Exporter.Export(ctx, owner.ID, tasks)
	if err != nil {
		return "", fmt.Errorf("export tasks: %w", err)
	}
	return url, nil
}

func (s *TaskService) index(ctx context.Context, t entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("index task failed")
	}
}
