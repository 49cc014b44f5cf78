// Package tui provides the Bubble Tea dial interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wordwheel/internal/fusion"
	"github.com/verte-zerg/wordwheel/internal/model"
	"github.com/verte-zerg/wordwheel/internal/relay"
	"github.com/verte-zerg/wordwheel/internal/selection"
	"github.com/verte-zerg/wordwheel/internal/variants"
)

const fetchTimeout = 10 * time.Second

// dragState tracks an in-progress mouse drag on one dial panel. Deltas are
// incremental: each motion event measures against the immediately preceding
// pointer angle, not the drag start.
type dragState struct {
	dial      fusion.DialID
	prevAngle float64
}

// Model implements the Bubble Tea dial UI. All mutation happens inside
// Update; relay events and provider results arrive as messages, so no two
// handlers ever run concurrently.
type Model struct {
	cfg      model.ClientConfig
	engine   *fusion.Engine
	sentence selection.Sentence
	cycler   *selection.Cycler
	nav      *selection.Navigator
	provider variants.Provider
	events   <-chan relay.Event

	spin      spinner.Model
	width     int
	connected bool
	drag      *dragState
	fetching  bool

	prevLeft float64
}

type relayMsg struct {
	event relay.Event
}

type eventsClosedMsg struct{}

type fetchResultMsg struct {
	cursor   int
	original string
	results  []string
	err      error
}

type extendResultMsg struct {
	oldLen  int
	results []string
	err     error
}

// NewModel constructs the dial UI around a seed sentence.
func NewModel(cfg model.ClientConfig, provider variants.Provider, events <-chan relay.Event, seed string) *Model {
	if cfg.Window <= 0 {
		cfg.Window = 6
	}
	sentence := selection.NewSentence(seed)
	return &Model{
		cfg:      cfg,
		engine:   fusion.NewEngine(),
		sentence: sentence,
		cycler:   selection.NewCycler(0, sentence[0]),
		nav:      selection.NewNavigator(0, 0),
		provider: provider,
		events:   events,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Sentence returns the current sentence text. Printed by the CLI after the
// program exits so the sculpted sentence survives the alt screen.
func (m *Model) Sentence() string {
	return m.sentence.String()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case relayMsg:
		cmd := m.updateRelay(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))
	case eventsClosedMsg:
		m.connected = false
		return m, nil
	case fetchResultMsg:
		m.fetching = false
		if msg.err == nil {
			m.cycler.ApplyFetch(msg.cursor, msg.original, msg.results)
		}
		// The fetch itself never rewrites the displayed word: selection
		// happens on the next angle change. Failures likewise retry on the
		// next angle change.
		return m, nil
	case extendResultMsg:
		return m, m.updateExtension(msg)
	case spinner.TickMsg:
		if !m.nav.Extending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up":
		m.engine.ApplyMouseDelta(fusion.Left, selection.StepDegrees)
	case "down":
		m.engine.ApplyMouseDelta(fusion.Left, -selection.StepDegrees)
	case "right":
		m.engine.ApplyMouseDelta(fusion.Right, selection.StepDegrees)
	case "left":
		m.engine.ApplyMouseDelta(fusion.Right, -selection.StepDegrees)
	default:
		return m, nil
	}
	return m, m.react()
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lay := computeLayout(m.width)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if dial, ok := lay.hitTest(msg.X, msg.Y); ok {
			m.drag = &dragState{dial: dial, prevAngle: lay.pointerAngle(dial, msg.X, msg.Y)}
		}
		return m, nil
	case tea.MouseActionMotion:
		if m.drag == nil {
			return m, nil
		}
		angle := lay.pointerAngle(m.drag.dial, msg.X, msg.Y)
		m.engine.ApplyMouseDelta(m.drag.dial, angle-m.drag.prevAngle)
		m.drag.prevAngle = angle
		return m, m.react()
	case tea.MouseActionRelease:
		m.drag = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateRelay(ev relay.Event) tea.Cmd {
	switch ev := ev.(type) {
	case relay.ConnectionOpened:
		m.connected = true
		m.engine.OnConnect()
		return nil
	case relay.ConnectionClosed:
		m.connected = false
		m.engine.OnDisconnect()
		return nil
	case relay.TickUpdate:
		if jumped := m.engine.OnTick(ev.Pair); jumped {
			// Absolute jump: re-baseline so it is not read as rotation.
			m.nav.Rebase(m.engine.Effective(fusion.Right))
		}
		return m.react()
	default:
		return nil
	}
}

// react turns the dials' effective angles into selection transitions. It
// runs after every input event that may have moved a dial.
func (m *Model) react() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.reactRight(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.reactLeft(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) reactRight() tea.Cmd {
	angle := m.engine.Effective(fusion.Right)
	pending := m.nav.Consume(angle, len(m.sentence))

	cursor := m.nav.Cursor()
	if cursor < len(m.sentence) && cursor != m.cycler.Cursor() {
		m.cycler.SetCursor(cursor, m.sentence[cursor])
	}
	if pending && !m.nav.Extending() {
		m.nav.BeginExtension()
		return tea.Batch(m.extendCmd(), m.spin.Tick)
	}
	return nil
}

func (m *Model) reactLeft() tea.Cmd {
	angle := m.engine.Effective(fusion.Left)
	if angle == m.prevLeft {
		// Variants apply on the next angle change, never on their own.
		return nil
	}
	m.prevLeft = angle

	cursor := m.nav.Cursor()
	if cursor >= len(m.sentence) {
		// Pending-extension sentinel: nothing to cycle yet.
		return nil
	}
	if m.cycler.NeedsFetch() {
		if m.fetching {
			return nil
		}
		m.fetching = true
		return m.fetchCmd(cursor)
	}
	word := m.cycler.Pick(angle)
	if word != m.sentence[cursor] {
		m.sentence[cursor] = word
	}
	return nil
}

func (m *Model) updateExtension(msg extendResultMsg) tea.Cmd {
	if msg.err != nil || len(msg.results) == 0 {
		m.nav.AbortExtension(len(m.sentence))
		m.cycler.SetCursor(m.nav.Cursor(), m.sentence[m.nav.Cursor()])
		return nil
	}
	m.sentence = append(m.sentence, msg.results[0])
	m.nav.FinishExtension()
	// Prime the cycler so the left dial can cycle the new word without a
	// redundant fetch.
	m.cycler.Prime(msg.oldLen, msg.results)
	return m.react()
}

func (m *Model) fetchCmd(cursor int) tea.Cmd {
	req := variants.VariantRequest(m.sentence, cursor)
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := provider.Variations(ctx, req)
		return fetchResultMsg{cursor: cursor, original: req.Word, results: results, err: err}
	}
}

func (m *Model) extendCmd() tea.Cmd {
	req := variants.PredictRequest(m.sentence)
	oldLen := len(m.sentence)
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := provider.Variations(ctx, req)
		return extendResultMsg{oldLen: oldLen, results: results, err: err}
	}
}

func waitForEvent(events <-chan relay.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return relayMsg{event: ev}
	}
}
