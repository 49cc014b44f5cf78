// Package relay forwards tick pairs from the bridge to any number of
// viewers over websockets and exposes them client-side as a typed event
// stream, keeping transport types out of the fusion logic.
package relay

import "github.com/verte-zerg/wordwheel/internal/model"

// Event is one item of the relay's event stream.
type Event interface {
	relayEvent()
}

// ConnectionOpened signals a fresh relay connection. The next TickUpdate
// carries the bridge's last known pair and must be consumed as a resync,
// not a delta.
type ConnectionOpened struct{}

// ConnectionClosed signals that the relay connection dropped.
type ConnectionClosed struct {
	Err error
}

// TickUpdate carries one counter pair.
type TickUpdate struct {
	Pair model.TickPair
}

func (ConnectionOpened) relayEvent() {}
func (ConnectionClosed) relayEvent() {}
func (TickUpdate) relayEvent()       {}

// encoderMessage is the wire shape pushed to every viewer.
type encoderMessage struct {
	Type string         `json:"type"`
	Data model.TickPair `json:"data"`
}

const messageTypeEncoder = "encoder"
