package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-review/internal/shared/telemetry"
)

// Serve runs srv until ctx is done, then shuts it down within timeout.
// Extra background tasks run in the same group and must return when ctx ends.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		telemetry.Info("server.starting", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		telemetry.Info("server.stopping", map[string]any{"addr": srv.Addr})
		return srv.Shutdown(shutdownCtx)
	})

	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}

	return g.Wait()
}

// Every runs fn on each tick until ctx is done.
func Every(interval time.Duration, fn func()) func(context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fn()
			}
		}
	}
}
