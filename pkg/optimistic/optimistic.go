// Package optimistic runs remote mutations with immediate local effect: the
// projected value is applied before the remote call resolves, and on failure
// the executor itself restores the rollback snapshot before reporting the
// error. Callers never have to remember to roll back.
package optimistic

import (
	"context"
	"log/slog"
)

// Options carries the optional callbacks and busy-key wiring for one Execute.
type Options[T any] struct {
	// OnSuccess receives the optimistic value after the remote op resolves.
	OnSuccess func(T)
	// OnError receives the remote error after the rollback has been applied.
	OnError func(error)
	// BusyKey, when set together with Registry, gates UI affordances while
	// the remote op is in flight.
	BusyKey  Key
	Registry *Registry
	Log      *slog.Logger
}

// Execute applies optimistic through apply, runs op, and on failure restores
// rollback through apply before invoking OnError. The error is returned either
// way, so callers without an OnError still observe the failure.
//
// Execute does not serialize concurrent calls for the same busy key; callers
// own that discipline (one in-flight mutation per logical entity).
func Execute[T, R any](ctx context.Context, apply func(T), op func(context.Context) (R, error), optimistic, rollback T, opts Options[T]) (R, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	if opts.Registry != nil && opts.BusyKey != (Key{}) {
		opts.Registry.Start(opts.BusyKey)
		defer opts.Registry.Stop(opts.BusyKey)
	}

	apply(optimistic)

	result, err := op(ctx)
	if err != nil {
		apply(rollback)
		log.WarnContext(ctx, "optimistic update rolled back",
			"key", opts.BusyKey.String(), "error", err)
		if opts.OnError != nil {
			opts.OnError(err)
		}
		var zero R
		return zero, err
	}

	if opts.OnSuccess != nil {
		opts.OnSuccess(optimistic)
	}
	return result, nil
}
