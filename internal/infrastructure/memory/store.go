// Package memory is a process-local storage driver. Identities and tasks share
// one lock so that deleting an identity and its tasks is a single step.
package memory

import (
	"sync"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

type Store struct {
	mu         sync.RWMutex
	identities map[string]entity.Identity
	handles    map[string]string
	tasks      map[int64]entity.Task
	lastTaskID int64
}

func NewStore() *Store {
	return &Store{
		identities: make(map[string]entity.Identity),
		handles:    make(map[string]string),
		tasks:      make(map[int64]entity.Task),
	}
}

func (s *Store) Identities() *IdentityRepository { return &IdentityRepository{s: s} }

func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }
