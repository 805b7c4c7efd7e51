package services

import (
	"context"

	"github.com/plantops/plantops/pkg/composables"
)

// TxRunner runs fn inside one transaction, committing when it returns nil.
type TxRunner interface {
	InTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// PoolTxRunner runs transactions on the pool found in the context.
type PoolTxRunner struct{}

func (PoolTxRunner) InTx(ctx context.Context, fn func(context.Context) error) error {
	return composables.InTx(ctx, fn)
}

func inTx[T any](ctx context.Context, runner TxRunner, fn func(txCtx context.Context) (T, error)) (T, error) {
	var out T
	err := runner.InTx(ctx, func(txCtx context.Context) error {
		v, err := fn(txCtx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
