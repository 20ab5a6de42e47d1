package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floroz/ledger/internal/domain/items"
	"github.com/floroz/ledger/pkg/events"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*items.Event
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event *items.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []*items.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*items.Event(nil), p.events...)
}

func TestServe_PublishesEventsFromDrainingRequests(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	outbox := events.NewOutbox(16)
	publisher := &capturePublisher{}
	// Only the shutdown flush can publish
	relay := events.NewOutboxRelay(outbox, publisher, 10, time.Hour, events.DefaultExchange, logger)

	started := make(chan struct{})
	release := make(chan struct{})
	event := &items.Event{
		ID:        uuid.New(),
		Type:      items.EventTypeBidPlaced,
		ItemKey:   1,
		Amount:    10,
		CreatedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/bid", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		// The mutation commits while the server is shutting down
		_ = outbox.Append(r.Context(), event)
		w.WriteHeader(http.StatusOK)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, relay, 5*time.Second, logger) }()

	respDone := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/bid")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		respDone <- err
	}()

	<-started
	cancel()

	// Give the shutdown time to begin before the request finishes
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, publisher.published())
	close(release)

	require.NoError(t, <-respDone)
	require.NoError(t, <-done)

	got := publisher.published()
	require.Len(t, got, 1)
	assert.Equal(t, event.ID, got[0].ID)
	assert.Zero(t, outbox.Len())
}

func TestServe_StopsWithoutRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.NewServeMux(), ReadHeaderTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, serve(ctx, srv, ln, nil, time.Second, slog.New(slog.DiscardHandler)))
}
