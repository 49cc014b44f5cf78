package relay

import (
	"testing"
	"time"

	"github.com/verte-zerg/wordwheel/internal/model"
)

func TestHubLast(t *testing.T) {
	h := NewHub()
	if _, ok := h.Last(); ok {
		t.Fatalf("fresh hub must not report a last pair")
	}
	h.Publish(model.TickPair{Encoder1: 5, Encoder2: 6})
	pair, ok := h.Last()
	if !ok || pair != (model.TickPair{Encoder1: 5, Encoder2: 6}) {
		t.Fatalf("Last() = %+v, %v", pair, ok)
	}

	// History reaches a late viewer through Last, not the subscription.
	ch, cancel := h.Subscribe()
	defer cancel()
	select {
	case pair := <-ch:
		t.Fatalf("subscribe must not queue history, got %+v", pair)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	defer cancelA()
	b, cancelB := h.Subscribe()
	defer cancelB()

	h.Publish(model.TickPair{Encoder1: 1, Encoder2: 2})
	for _, ch := range []<-chan model.TickPair{a, b} {
		select {
		case pair := <-ch:
			if pair != (model.TickPair{Encoder1: 1, Encoder2: 2}) {
				t.Fatalf("got %+v", pair)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber did not receive the published pair")
		}
	}
}

func TestHubLatestOnly(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	// Nobody reads between publishes: only the newest pair survives.
	h.Publish(model.TickPair{Encoder1: 1})
	h.Publish(model.TickPair{Encoder1: 2})
	h.Publish(model.TickPair{Encoder1: 3})

	select {
	case pair := <-ch:
		if pair.Encoder1 != 3 {
			t.Fatalf("expected the latest pair, got %+v", pair)
		}
	default:
		t.Fatalf("expected a queued pair")
	}
	select {
	case pair := <-ch:
		t.Fatalf("stale pair was not dropped: %+v", pair)
	default:
	}
}

func TestHubCancelIsIdempotent(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe()
	cancel()
	cancel()
	// Publishing after cancel must not panic on the closed channel.
	h.Publish(model.TickPair{Encoder1: 9})
}
