package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

type IdentityRepository struct {
	s *Store
}

var _ repo.IdentityRepository = (*IdentityRepository)(nil)

func (r *IdentityRepository) FindByID(_ context.Context, id string) (*entity.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.identities[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &i, nil
}

func (r *IdentityRepository) FindByHandle(_ context.Context, handle string) (*entity.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.handles[handle]
	if !ok {
		return nil, repo.ErrNotFound
	}
	i := r.s.identities[id]
	return &i, nil
}

func (r *IdentityRepository) Insert(_ context.Context, i *entity.Identity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.handles[i.Handle]; taken {
		return repo.ErrDuplicateHandle
	}
	r.s.identities[i.ID] = *i
	r.s.handles[i.Handle] = i.ID
	return nil
}

func (r *IdentityRepository) UpdateCredential(_ context.Context, id, hash string, epoch int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.identities[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	if epoch <= i.PasswordEpoch {
		epoch = i.PasswordEpoch + 1
	}
	i.CredentialHash = hash
	i.PasswordEpoch = epoch
	r.s.identities[id] = i
	return epoch, nil
}

func (r *IdentityRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.identities[id]
	if !ok {
		return repo.ErrNotFound
	}
	for tid, t := range r.s.tasks {
		if t.Owner == id {
			delete(r.s.tasks, tid)
		}
	}
	delete(r.s.handles, i.Handle)
	delete(r.s.identities, id)
	return nil
}
