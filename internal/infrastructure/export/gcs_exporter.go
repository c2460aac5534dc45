// Package export writes task snapshots to Google Cloud Storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

type uploadFunc func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)

type GCSExporter struct {
	upload uploadFunc
	now    func() time.Time
	newID  func() string
}

var _ application.TaskExporter = (*GCSExporter)(nil)

func NewGCSExporter(client *storage.Client, bucket string) *GCSExporter {
	return &GCSExporter{
		upload: func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
			return helpers.UploadObject(ctx, client, bucket, objectPath, contentType, r)
		},
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type snapshotItem struct {
	ID        int64     `json:"todo_id"`
	Todo      string    `json:"todo"`
	CreatedAt time.Time `json:"created_at"`
	Done      bool      `json:"done"`
}

type snapshot struct {
	Owner      string         `json:"owner"`
	ExportedAt time.Time      `json:"exported_at"`
	Todos      []snapshotItem `json:"todos"`
}

// Export uploads tasks as exports/<owner>/<timestamp>-<id>.json.
func (e *GCSExporter) Export(ctx context.Context, owner string, tasks []entity.Task) (string, error) {
	now := e.now().UTC()
	snap := snapshot{Owner: owner, ExportedAt: now, Todos: make([]snapshotItem, 0, len(tasks))}
	for _, t := range tasks {
		snap.Todos = append(snap.Todos, snapshotItem{ID: t.ID, Todo: t.Text, CreatedAt: t.CreatedAt, Done: t.Done})
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	objectPath := path.Join("exports", owner, now.Format("20060102T150405Z")+"-"+e.newID()+".json")
	return e.upload(ctx, objectPath, "application/json", bytes.NewReader(b))
}
