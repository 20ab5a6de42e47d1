package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/floroz/ledger/pkg/events"
)

// serve runs srv on ln, and the journal relay when there is one, until ctx
// is cancelled or the server fails.
//
// The relay outlives the server: it is stopped only after Shutdown has
// drained in-flight requests, so events they append are still flushed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, relay *events.OutboxRelay, shutdownTimeout time.Duration, logger *slog.Logger) error {
	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()

	g, gctx := errgroup.WithContext(ctx)

	if relay != nil {
		g.Go(func() error {
			logger.Info("Starting Outbox Relay...")
			return relay.Run(relayCtx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting Ledger API", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down Ledger API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		stopRelay()
		return err
	})

	return g.Wait()
}
