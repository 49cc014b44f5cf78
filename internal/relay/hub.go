package relay

import (
	"sync"

	"github.com/verte-zerg/wordwheel/internal/model"
)

// Hub fans tick pairs out to subscribers. Delivery is latest-only: a slow
// subscriber sees the newest pair, never a backlog. Last exposes the most
// recent pair so the server can resync a new viewer before any delta.
type Hub struct {
	mu   sync.Mutex
	subs map[chan model.TickPair]struct{}
	last model.TickPair
	have bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.TickPair]struct{})}
}

// Publish delivers a pair to every subscriber, replacing any undelivered
// previous pair.
func (h *Hub) Publish(pair model.TickPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = pair
	h.have = true
	for ch := range h.subs {
		offer(ch, pair)
	}
}

// Subscribe registers a new viewer and returns its channel plus a cancel
// function. The channel carries only pairs published after registration;
// callers needing history read Last first.
func (h *Hub) Subscribe() (<-chan model.TickPair, func()) {
	ch := make(chan model.TickPair, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Last returns the most recent pair and whether one has been seen.
func (h *Hub) Last() (model.TickPair, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.have
}

// offer places pair on a one-slot channel, displacing a stale value.
func offer(ch chan model.TickPair, pair model.TickPair) {
	for {
		select {
		case ch <- pair:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
