package commands

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic wraps a panic recovered from a scheduled item.
var ErrWorkerPanic = errors.New("worker panicked")

// Schedule runs fn over items with at most limit items in flight and returns
// the results in input order. A failing or panicking item is converted by
// onFailure and never cancels its siblings. Items that have not started when
// ctx is done are converted with the context error.
func Schedule[T, R any](
	ctx context.Context,
	items []T,
	limit int,
	fn func(context.Context, T) (R, error),
	onFailure func(T, error) R,
) []R {
	results := make([]R, len(items))
	if limit < 1 {
		limit = 1
	}

	var group errgroup.Group
	group.SetLimit(limit)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			results[i] = onFailure(item, err)
			continue
		}
		group.Go(func() error {
			results[i] = runScheduled(ctx, item, fn, onFailure)
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func runScheduled[T, R any](
	ctx context.Context,
	item T,
	fn func(context.Context, T) (R, error),
	onFailure func(T, error) R,
) (result R) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = onFailure(item, fmt.Errorf("%w: %v", ErrWorkerPanic, recovered))
		}
	}()

	if err := ctx.Err(); err != nil {
		return onFailure(item, err)
	}
	value, err := fn(ctx, item)
	if err != nil {
		return onFailure(item, err)
	}
	return value
}
