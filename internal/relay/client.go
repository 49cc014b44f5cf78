package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const defaultReconnectDelay = 3 * time.Second

// Client subscribes to a relay server and republishes what it sees as
// Events. It reconnects forever until its context is cancelled.
type Client struct {
	url    string
	delay  time.Duration
	events chan Event
}

// NewClient returns a client for the given websocket URL (ws://host/ws).
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		delay:  defaultReconnectDelay,
		events: make(chan Event, 16),
	}
}

// Events returns the stream consumed by the fusion side. The channel is
// closed when Run returns.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Run dials and reads until ctx is cancelled. Every successful dial emits
// ConnectionOpened before any TickUpdate, so the consumer resyncs before
// applying deltas.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.events)
	for {
		err := c.readOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.emit(ctx, ConnectionClosed{Err: err})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
}

func (c *Client) readOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial relay: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close; the peer may already be gone.
			_ = cerr
		}
	}()
	// Unblock the read loop on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	c.emit(ctx, ConnectionOpened{})
	for {
		var msg encoderMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("relay read: %w", err)
		}
		if msg.Type != messageTypeEncoder {
			// Unknown message types are dropped, not fatal.
			continue
		}
		c.emit(ctx, TickUpdate{Pair: msg.Data})
	}
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
