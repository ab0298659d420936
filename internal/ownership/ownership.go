// Package ownership runs mutations that only the owner of a resource may
// perform.
package ownership

import (
	"context"
	"errors"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// ErrPermissionDenied is returned when the actor does not own the resource.
var ErrPermissionDenied = errors.New("You haven't permission")

// Tx runs fn inside a transaction. *postgres.TxManager implements it.
type Tx interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mutation describes one owner-checked change.
type Mutation[T any] struct {
	// Load fetches the resource and returns the resource's not-found error
	// when it is missing. Inside a transaction it should lock the row.
	Load func(ctx context.Context) (T, error)
	// OwnerID resolves who owns the loaded resource.
	OwnerID func(resource T) int64
	// Apply performs the change.
	Apply func(ctx context.Context, resource T) error
}

// Mutate loads the resource, checks that actor owns it and applies the
// change. Nothing is applied when the check fails. With a non-nil tx all
// three steps share one transaction.
func Mutate[T any](ctx context.Context, tx Tx, actor *domain.User, m Mutation[T]) error {
	if actor == nil {
		return ErrPermissionDenied
	}

	run := func(ctx context.Context) error {
		resource, err := m.Load(ctx)
		if err != nil {
			return err
		}
		if m.OwnerID(resource) != actor.ID {
			return ErrPermissionDenied
		}
		return m.Apply(ctx, resource)
	}

	if tx == nil {
		return run(ctx)
	}
	return tx.WithinTx(ctx, run)
}
