package executor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runPool runs work over items using up to n concurrent workers. It is the
// executor's error latch: errgroup.WithContext cancels its derived context
// the moment any worker's work returns an error, so every worker observes
// the failure at its own next cancellation check and stops pulling new
// items. The derived context passed to work is for that gating only —
// callers must not run a subprocess against it directly, or a sibling's
// failure would kill work already in flight instead of letting it finish.
func runPool[T any](ctx context.Context, n int, items []T, work func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if n > 0 {
		g.SetLimit(n)
	}
	for _, item := range items {
		g.Go(func() error {
			return work(gctx, item)
		})
	}
	return g.Wait()
}
