package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wordwheel/internal/fusion"
	"github.com/verte-zerg/wordwheel/internal/model"
	"github.com/verte-zerg/wordwheel/internal/relay"
	"github.com/verte-zerg/wordwheel/internal/variants"
)

type providerFunc func(variants.Request) ([]string, error)

func (f providerFunc) Variations(_ context.Context, req variants.Request) ([]string, error) {
	return f(req)
}

func newTestModel(t *testing.T, p variants.Provider, seed string) *Model {
	t.Helper()
	events := make(chan relay.Event)
	return NewModel(model.ClientConfig{Window: 6}, p, events, seed)
}

// drain executes a command tree and collects every resulting message
// without dispatching them.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func pressRight(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyRight}))
	return cmd
}

func TestExtensionRoundTrip(t *testing.T) {
	var gotReq variants.Request
	p := providerFunc(func(req variants.Request) ([]string, error) {
		gotReq = req
		return []string{"word4", "again", "still"}, nil
	})
	m := newTestModel(t, p, "we walk home")

	// Two steps to the last word, one more onto the sentinel.
	pressRight(m)
	pressRight(m)
	if m.nav.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", m.nav.Cursor())
	}
	cmd := pressRight(m)
	if !m.nav.Extending() {
		t.Fatalf("expected an extension in flight")
	}
	for _, msg := range drain(cmd) {
		if ext, ok := msg.(extendResultMsg); ok {
			m.Update(ext)
		}
	}

	if gotReq.Word != variants.PredictWord {
		t.Fatalf("provider word = %q, want the predict sentinel", gotReq.Word)
	}
	if gotReq.Context != "we walk home "+variants.MaskToken {
		t.Fatalf("provider context = %q", gotReq.Context)
	}
	if len(m.sentence) != 4 || m.sentence[3] != "word4" {
		t.Fatalf("sentence = %v", m.sentence)
	}
	if m.nav.Cursor() != 3 || m.nav.Extending() {
		t.Fatalf("cursor = %d extending = %v", m.nav.Cursor(), m.nav.Extending())
	}
	// The cycler is primed: the left dial can cycle the new word at once.
	if m.cycler.NeedsFetch() {
		t.Fatalf("cycler must be primed after extension")
	}
	if got := m.Sentence(); got != "we walk home word4" {
		t.Fatalf("sentence text = %q", got)
	}
}

func TestFetchResolutionKeepsDisplayedWord(t *testing.T) {
	p := providerFunc(func(variants.Request) ([]string, error) {
		return []string{"I", "they", "she"}, nil
	})
	m := newTestModel(t, p, "we walk home")

	// One nudge to 60 degrees issues the fetch; resolve it with no further
	// dial input.
	_, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyUp}))
	for _, msg := range drain(cmd) {
		if res, ok := msg.(fetchResultMsg); ok {
			m.Update(res)
		}
	}

	// Installing variants must not rewrite the word by itself.
	if m.sentence[0] != "we" {
		t.Fatalf("fetch resolution changed the word: sentence[0] = %q, want %q", m.sentence[0], "we")
	}
	// The next angle change selects from the installed variants.
	m.engine.ApplyMouseDelta(fusion.Left, 5)
	m.react()
	if m.sentence[0] != "I" {
		t.Fatalf("sentence[0] = %q, want %q after movement", m.sentence[0], "I")
	}
}

func TestExtensionFailureRecovery(t *testing.T) {
	p := providerFunc(func(variants.Request) ([]string, error) {
		return nil, fmt.Errorf("backend down")
	})
	m := newTestModel(t, p, "we walk home")

	pressRight(m)
	pressRight(m)
	cmd := pressRight(m)
	for _, msg := range drain(cmd) {
		if ext, ok := msg.(extendResultMsg); ok {
			m.Update(ext)
		}
	}

	if len(m.sentence) != 3 {
		t.Fatalf("failed extension must not grow the sentence: %v", m.sentence)
	}
	if m.nav.Cursor() != 2 {
		t.Fatalf("cursor must revert to 2, got %d", m.nav.Cursor())
	}
	if m.nav.Extending() {
		t.Fatalf("extension flag must clear on failure")
	}
}

func TestVariantCycling(t *testing.T) {
	p := providerFunc(func(req variants.Request) ([]string, error) {
		if req.Word != "we" {
			t.Fatalf("unexpected fetch for %q", req.Word)
		}
		return []string{"I", "they", "she"}, nil
	})
	m := newTestModel(t, p, "we walk home")

	// First left-dial movement issues the fetch.
	_, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyUp}))
	for _, msg := range drain(cmd) {
		if res, ok := msg.(fetchResultMsg); ok {
			m.Update(res)
		}
	}
	// Effective angle is 60 now; push it to 125 degrees.
	m.engine.ApplyMouseDelta(fusion.Left, 65)
	m.react()

	// floor(125/60) mod 4 = 2 -> "they".
	if m.sentence[0] != "they" {
		t.Fatalf("sentence[0] = %q, want %q", m.sentence[0], "they")
	}
}

func TestStaleFetchGuard(t *testing.T) {
	p := providerFunc(func(variants.Request) ([]string, error) {
		return []string{"I", "they"}, nil
	})
	m := newTestModel(t, p, "we walk home")

	// Fetch issued for cursor 0.
	_, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyUp}))
	msgs := drain(cmd)
	// Cursor moves before the fetch resolves.
	pressRight(m)
	for _, msg := range msgs {
		if res, ok := msg.(fetchResultMsg); ok {
			m.Update(res)
		}
	}

	if !m.cycler.NeedsFetch() {
		t.Fatalf("stale fetch must not satisfy the new cursor")
	}
	if m.sentence[0] != "we" {
		t.Fatalf("stale fetch mutated the sentence: %v", m.sentence)
	}
}

func TestRelayTicksDriveNavigation(t *testing.T) {
	p := providerFunc(func(variants.Request) ([]string, error) {
		return nil, fmt.Errorf("unused")
	})
	m := newTestModel(t, p, "we walk home")

	m.updateRelay(relay.ConnectionOpened{})
	// First pair resyncs; no navigation should happen even for a large count.
	m.updateRelay(relay.TickUpdate{Pair: model.TickPair{Encoder1: 0, Encoder2: 500}})
	if m.nav.Cursor() != 0 {
		t.Fatalf("resync must not navigate, cursor = %d", m.nav.Cursor())
	}
	// 17 detents later the right dial has turned 61.2 degrees: one step.
	m.updateRelay(relay.TickUpdate{Pair: model.TickPair{Encoder1: 0, Encoder2: 517}})
	if m.nav.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", m.nav.Cursor())
	}
}
