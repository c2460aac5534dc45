package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
)

func TestOwnershipGuard(t *testing.T) {
	var g OwnershipGuard
	alice := &entity.Identity{ID: "a"}
	bob := &entity.Identity{ID: "b"}
	task := &entity.Task{ID: 7, Owner: "a"}

	got, err := g.Authorize(alice, task)
	require.NoError(t, err)
	assert.Same(t, task, got)

	_, foreignErr := g.Authorize(bob, task)
	_, missingErr := g.Authorize(bob, nil)
	assert.ErrorIs(t, foreignErr, apperror.ErrTaskNotFound)
	assert.Equal(t, missingErr, foreignErr)

	_, err = g.Authorize(nil, task)
	assert.ErrorIs(t, err, apperror.ErrTaskNotFound)
}
