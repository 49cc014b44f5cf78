package fusion

import "github.com/verte-zerg/wordwheel/internal/model"

// DialID names one of the two dials.
type DialID int

// Left cycles word variants, Right moves the selection cursor.
const (
	Left DialID = iota
	Right
)

// Engine owns both dials and the hardware tick baseline. After a relay
// connection opens, the first tick pair resynchronizes both dials before any
// delta is applied; consuming a delta against a pre-disconnect baseline
// would produce a corrupted absolute position.
type Engine struct {
	left  Dial
	right Dial

	last        model.TickPair
	needsResync bool
}

// NewEngine returns an engine waiting for its first resync.
func NewEngine() *Engine {
	return &Engine{needsResync: true}
}

// OnConnect arms resynchronization for the next tick pair.
func (e *Engine) OnConnect() {
	e.needsResync = true
}

// OnDisconnect invalidates the tick baseline until the relay reconnects.
func (e *Engine) OnDisconnect() {
	e.needsResync = true
}

// OnTick folds a counter pair into both dials and reports whether either
// dial took an absolute jump (resync or desync) instead of an incremental
// delta. Consumers re-baseline on a jump rather than reading it as
// rotation.
func (e *Engine) OnTick(pair model.TickPair) bool {
	if e.needsResync {
		e.left.Resync(pair.Encoder1)
		e.right.Resync(pair.Encoder2)
		e.last = pair
		e.needsResync = false
		return true
	}
	jumpedLeft := e.left.ApplyTick(e.last.Encoder1, pair.Encoder1)
	jumpedRight := e.right.ApplyTick(e.last.Encoder2, pair.Encoder2)
	e.last = pair
	return jumpedLeft || jumpedRight
}

// ApplyMouseDelta adds a drag delta to one dial's mouse contribution.
func (e *Engine) ApplyMouseDelta(id DialID, deg float64) {
	e.dial(id).ApplyMouseDelta(deg)
}

// Effective returns one dial's effective angle in degrees.
func (e *Engine) Effective(id DialID) float64 {
	return e.dial(id).Effective()
}

func (e *Engine) dial(id DialID) *Dial {
	if id == Left {
		return &e.left
	}
	return &e.right
}
