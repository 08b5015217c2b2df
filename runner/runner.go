// Package runner supervises long running components sharing a context.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

type (
	// Runnable represents a component that can be run with a context.
	Runnable interface {
		Run(ctx context.Context) error
	}

	// RunnableFunc adapts a function to a Runnable.
	RunnableFunc func(ctx context.Context) error
)

func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// RunAll starts every runnable in its own goroutine and blocks until they all return.
//
// The first failure cancels the context shared by the others and is returned, prefixed by the
// position of the failing runnable. Nil runnables are skipped.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for i, runnable := range runnables {
		if runnable == nil {
			continue
		}
		group.Go(func() error {
			if err := runnable.Run(ctx); err != nil {
				return fmt.Errorf("runnable #%d: %w", i, err)
			}
			return nil
		})
	}

	return group.Wait()
}

// WithSyscallKillableContext returns a context cancelled on SIGINT or SIGTERM.
// Calling stop releases the signal handlers.
func WithSyscallKillableContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
