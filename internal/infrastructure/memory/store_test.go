package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

func seedIdentity(t *testing.T, s *Store, id, handle string) {
	t.Helper()
	require.NoError(t, s.Identities().Insert(context.Background(), &entity.Identity{ID: id, Handle: handle, PasswordEpoch: 10}))
}

func TestIdentity_DuplicateHandle(t *testing.T) {
	s := NewStore()
	seedIdentity(t, s, "1", "alice")

	err := s.Identities().Insert(context.Background(), &entity.Identity{ID: "2", Handle: "alice"})
	assert.ErrorIs(t, err, repo.ErrDuplicateHandle)

	// handles are case-sensitive
	assert.NoError(t, s.Identities().Insert(context.Background(), &entity.Identity{ID: "3", Handle: "Alice"}))
}

func TestIdentity_UpdateCredentialStrictlyIncreases(t *testing.T) {
	s := NewStore()
	seedIdentity(t, s, "1", "alice")
	ctx := context.Background()

	epoch, err := s.Identities().UpdateCredential(ctx, "1", "h2", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), epoch)

	epoch, err = s.Identities().UpdateCredential(ctx, "1", "h3", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), epoch)

	got, err := s.Identities().FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "h3", got.CredentialHash)
	assert.Equal(t, int64(100), got.PasswordEpoch)

	_, err = s.Identities().UpdateCredential(ctx, "missing", "h", 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestIdentity_DeleteCascadesTasks(t *testing.T) {
	s := NewStore()
	seedIdentity(t, s, "a", "alice")
	seedIdentity(t, s, "b", "bob")
	ctx := context.Background()

	require.NoError(t, s.Tasks().Insert(ctx, &entity.Task{Text: "a1", Owner: "a"}))
	require.NoError(t, s.Tasks().Insert(ctx, &entity.Task{Text: "b1", Owner: "b"}))

	require.NoError(t, s.Identities().Delete(ctx, "a"))

	left, err := s.Tasks().FindByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, left)

	others, err := s.Tasks().FindByOwner(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, others, 1)

	_, err = s.Identities().FindByHandle(ctx, "alice")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, s.Identities().Delete(ctx, "a"), repo.ErrNotFound)
}

func TestTasks_ScopedByOwner(t *testing.T) {
	s := NewStore()
	seedIdentity(t, s, "a", "alice")
	ctx := context.Background()

	task := &entity.Task{Text: "x", Owner: "a"}
	require.NoError(t, s.Tasks().Insert(ctx, task))
	assert.Equal(t, int64(1), task.ID)

	foreign := &entity.Task{ID: task.ID, Text: "hijack", Owner: "b"}
	assert.ErrorIs(t, s.Tasks().Update(ctx, foreign), repo.ErrNotFound)
	assert.ErrorIs(t, s.Tasks().Delete(ctx, task.ID, "b"), repo.ErrNotFound)

	got, err := s.Tasks().Find(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Text)

	require.NoError(t, s.Tasks().Delete(ctx, task.ID, "a"))
	_, err = s.Tasks().Find(ctx, task.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTasks_InsertRequiresOwner(t *testing.T) {
	s := NewStore()
	err := s.Tasks().Insert(context.Background(), &entity.Task{Text: "x", Owner: "ghost"})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTasks_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	s := NewStore()
	seedIdentity(t, s, "a", "alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Tasks().Insert(context.Background(), &entity.Task{Text: "t", Owner: "a"})
		}()
	}
	wg.Wait()

	tasks, err := s.Tasks().FindByOwner(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, tasks, 50)
	for i, task := range tasks {
		assert.Equal(t, int64(i+1), task.ID)
	}
}
