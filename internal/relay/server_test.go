package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordwheel/internal/model"
)

func TestRelayRoundTrip(t *testing.T) {
	hub := NewHub()
	status := func() model.BridgeStatus {
		return model.BridgeStatus{Connected: true, Port: "/dev/ttyUSB0"}
	}
	srv := httptest.NewServer(NewServer(hub, status).Handler())
	defer srv.Close()

	// The bridge has already seen a pair before any viewer connects.
	hub.Publish(model.TickPair{Encoder1: 7, Encoder2: -2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := NewClient("ws" + strings.TrimPrefix(srv.URL, "http") + "/ws")
	done := make(chan struct{})
	go func() {
		_ = client.Run(ctx)
		close(done)
	}()

	ev := nextEvent(t, client)
	if _, ok := ev.(ConnectionOpened); !ok {
		t.Fatalf("first event = %T, want ConnectionOpened", ev)
	}
	// The last known pair arrives before any fresh delta: resync first.
	ev = nextEvent(t, client)
	tick, ok := ev.(TickUpdate)
	if !ok {
		t.Fatalf("second event = %T, want TickUpdate", ev)
	}
	if tick.Pair != (model.TickPair{Encoder1: 7, Encoder2: -2}) {
		t.Fatalf("resync pair = %+v", tick.Pair)
	}

	hub.Publish(model.TickPair{Encoder1: 8, Encoder2: -2})
	ev = nextEvent(t, client)
	tick, ok = ev.(TickUpdate)
	if !ok {
		t.Fatalf("third event = %T, want TickUpdate", ev)
	}
	if tick.Pair.Encoder1 != 8 {
		t.Fatalf("delta pair = %+v", tick.Pair)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not stop on context cancellation")
	}
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		if !ok {
			t.Fatalf("event stream closed early")
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for relay event")
		return nil
	}
}
