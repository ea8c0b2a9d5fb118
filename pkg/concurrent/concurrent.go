package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalizes a worker count: values below one mean GOMAXPROCS.
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEach calls action for every index in [0, n) using at most workers
// goroutines. The first error cancels ctx for the remaining calls and is
// returned once all started calls have finished. A cancelled ctx is reported
// even when no call failed.
func ForEach(ctx context.Context, n, workers int, action func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ParallelMap applies mapFn to each element of in, preserving order.
// The workers parameter controls the number of goroutines.
func ParallelMap[T any, R any](in []T, workers int, mapFn func(T) R) []R {
	out := make([]R, len(in))
	if len(in) == 0 {
		return out
	}
	workers = Workers(workers)
	if workers == 1 || len(in) == 1 {
		for i, v := range in {
			out[i] = mapFn(v)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, v := range in {
		g.Go(func() error {
			out[i] = mapFn(v)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
