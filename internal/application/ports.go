package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

// ErrExportUnavailable is returned by TaskService.Export when no exporter is configured.
var ErrExportUnavailable = errors.New("task export is not configured")

// EventPublisher delivers account events to a message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Activity is informational account activity. It never takes part in authentication.
type Activity struct {
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
}

type ActivityTracker interface {
	RecordLogin(ctx context.Context, identityID string, at time.Time) error
	RecordPasswordChange(ctx context.Context, identityID string, at time.Time) error
	Load(ctx context.Context, identityID string) (Activity, error)
	Forget(ctx context.Context, identityID string) error
}

// TaskIndex is a secondary full-text index over tasks. Hits are candidate ids only;
// callers re-read and authorize every hit.
type TaskIndex interface {
	Index(ctx context.Context, t entity.Task) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, owner, query string, size int) ([]int64, error)
}

// TaskExporter stores a snapshot of an owner's tasks and returns where it went.
type TaskExporter interface {
	Export(ctx context.Context, owner string, tasks []entity.Task) (string, error)
}
