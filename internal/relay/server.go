package relay

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/wordwheel/internal/model"
)

// StatusFunc reports the bridge's current state for the status endpoint.
type StatusFunc func() model.BridgeStatus

// Server exposes the hub over HTTP: GET /ws upgrades to a push-only
// websocket, GET /status returns the bridge status.
type Server struct {
	hub      *Hub
	status   StatusFunc
	upgrader websocket.Upgrader
}

// NewServer wraps a hub and a status source.
func NewServer(hub *Hub, status StatusFunc) *Server {
	return &Server{
		hub:    hub,
		status: status,
		// Viewers connect from arbitrary origins on the local network.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /status", s.handleStatus)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("relay: upgrade failed: %v", err)
		return
	}
	ch, cancel := s.hub.Subscribe()
	defer cancel()
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close; the peer may already be gone.
			_ = cerr
		}
	}()

	// The protocol is push-only; the read loop just detects the peer
	// going away so the subscription is released.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	// Resync before deltas: the last known pair goes out first. A pair
	// published between Subscribe and Last may arrive twice; equal counters
	// are a no-op on the client.
	if pair, ok := s.hub.Last(); ok {
		if err := conn.WriteJSON(encoderMessage{Type: messageTypeEncoder, Data: pair}); err != nil {
			return
		}
	}
	for pair := range ch {
		msg := encoderMessage{Type: messageTypeEncoder, Data: pair}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		log.Printf("relay: failed to write status: %v", err)
	}
}
