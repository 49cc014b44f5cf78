// Package model defines shared data structures.
package model

// TickPair is an immutable snapshot of the two hardware detent counters.
// Counts are absolute since device boot (or since the last device reset)
// and may move in either direction.
type TickPair struct {
	Encoder1 int `json:"encoder1"`
	Encoder2 int `json:"encoder2"`
}

// BridgeStatus reports the serial bridge's connection state.
type BridgeStatus struct {
	Connected bool     `json:"connected"`
	Port      string   `json:"port,omitempty"`
	LastData  TickPair `json:"lastData"`
}

// ClientConfig defines dial client settings.
type ClientConfig struct {
	BridgeURL   string
	Window      int
	Provider    string
	ProviderURL string
	Lang        string
}

// BridgeConfig defines bridge process settings.
type BridgeConfig struct {
	Listen     string
	SerialPort string
	BaudRate   int
	RetrySec   int
}
