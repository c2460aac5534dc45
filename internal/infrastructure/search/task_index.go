// Package search indexes tasks in Elasticsearch for owner-scoped text search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// Mapping is the index definition for task documents.
const Mapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "long"},
      "owner":      {"type": "keyword"},
      "todo":       {"type": "text"},
      "done":       {"type": "boolean"},
      "created_at": {"type": "date"}
    }
  }
}`

const requestTimeout = 3 * time.Second

type TaskIndex struct {
	es    *elasticsearch.Client
	index string
}

var _ application.TaskIndex = (*TaskIndex)(nil)

func NewTaskIndex(es *elasticsearch.Client, index string) *TaskIndex {
	return &TaskIndex{es: es, index: index}
}

// EnsureIndex creates the index with Mapping if it is missing.
func (x *TaskIndex) EnsureIndex(ctx context.Context) error {
	return helpers.EnsureESIndex(ctx, x.es, x.index, Mapping)
}

type taskDoc struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Todo      string    `json:"todo"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

func (x *TaskIndex) Index(ctx context.Context, t entity.Task) error {
	b, err := json.Marshal(taskDoc{ID: t.ID, Owner: t.Owner, Todo: t.Text, Done: t.Done, CreatedAt: t.CreatedAt})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(t.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	return x.do(ctx, req, "index task")
}

func (x *TaskIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// already gone is fine
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove task: %s", res.Status())
	}
	return nil
}

// RemoveOwner deletes every document belonging to owner.
func (x *TaskIndex) RemoveOwner(ctx context.Context, owner string) error {
	b, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"owner": owner}},
	})
	if err != nil {
		return err
	}
	req := esapi.DeleteByQueryRequest{
		Index:     []string{x.index},
		Body:      bytes.NewReader(b),
		Conflicts: "proceed",
	}
	return x.do(ctx, req, "remove owner tasks")
}

// Search returns ids of the owner's tasks matching query, best match first.
func (x *TaskIndex) Search(ctx context.Context, owner, query string, size int) ([]int64, error) {
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []any{map[string]any{"match": map[string]any{"todo": map[string]any{"query": query, "fuzziness": "AUTO"}}}},
				"filter": []any{map[string]any{"term": map[string]any{"owner": owner}}},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search tasks: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (x *TaskIndex) do(ctx context.Context, req esapi.Request, op string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("%s: %s", op, res.Status())
	}
	return nil
}
