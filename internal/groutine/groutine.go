// Package groutine starts goroutines carrying a name in their context and in
// their pprof labels, so profiles and logs can tell the advertising loop from
// the WiFi rescan loop.
package groutine

import (
	"context"
	"runtime/pprof"
)

type ctxKey string

const goroutineNameKey ctxKey = "goroutine_name"

// Go runs fn in a named goroutine and returns a channel closed when fn returns.
// If parentCtx is nil, context.Background() is used.
//
//	done := groutine.Go(ctx, "advertise", func(ctx context.Context) {
//	    // work until ctx is done
//	})
//	<-done
func Go(parentCtx context.Context, name string, fn func(ctx context.Context)) <-chan struct{} {
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	done := make(chan struct{})
	labels := pprof.Labels("goroutine_name", name)

	go func() {
		defer close(done)
		pprof.Do(parentCtx, labels, func(ctx context.Context) {
			fn(context.WithValue(ctx, goroutineNameKey, name))
		})
	}()
	return done
}

// GetName retrieves the goroutine name from the context.
func GetName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(goroutineNameKey).(string); ok {
		return v
	}
	return ""
}
