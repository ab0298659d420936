package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/domain"
)

type resource struct {
	ownerID int64
}

type recordingTx struct {
	calls int
}

func (r *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

var errNotFound = errors.New("resource not found")

func mutation(res *resource, loadErr error, applied *bool) Mutation[*resource] {
	return Mutation[*resource]{
		Load: func(context.Context) (*resource, error) {
			if loadErr != nil {
				return nil, loadErr
			}
			return res, nil
		},
		OwnerID: func(r *resource) int64 { return r.ownerID },
		Apply: func(context.Context, *resource) error {
			*applied = true
			return nil
		},
	}
}

func TestMutate_OwnerApplies(t *testing.T) {
	// Arrange
	tx := &recordingTx{}
	applied := false
	actor := &domain.User{ID: 1, Role: domain.RoleOwner}

	// Act
	err := Mutate(context.Background(), tx, actor, mutation(&resource{ownerID: 1}, nil, &applied))

	// Assert
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, tx.calls)
}

func TestMutate_NonOwnerIsDeniedWithoutMutation(t *testing.T) {
	// Arrange
	applied := false
	actor := &domain.User{ID: 2, Role: domain.RoleOwner}

	// Act
	err := Mutate(context.Background(), &recordingTx{}, actor, mutation(&resource{ownerID: 1}, nil, &applied))

	// Assert
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, applied)
}

func TestMutate_NotFoundPropagates(t *testing.T) {
	applied := false
	actor := &domain.User{ID: 1}

	err := Mutate(context.Background(), nil, actor, mutation(nil, errNotFound, &applied))

	assert.ErrorIs(t, err, errNotFound)
	assert.False(t, applied)
}

func TestMutate_NilActorIsDenied(t *testing.T) {
	applied := false

	err := Mutate(context.Background(), nil, nil, mutation(&resource{ownerID: 1}, nil, &applied))

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, applied)
}

func TestMutate_ApplyErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	m := Mutation[*resource]{
		Load:    func(context.Context) (*resource, error) { return &resource{ownerID: 1}, nil },
		OwnerID: func(r *resource) int64 { return r.ownerID },
		Apply:   func(context.Context, *resource) error { return boom },
	}

	err := Mutate(context.Background(), &recordingTx{}, &domain.User{ID: 1}, m)

	assert.ErrorIs(t, err, boom)
}
