// Package bridge owns the serial connection to the dial hardware: it parses
// tick frames, tracks liveness, and republishes counter pairs.
package bridge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/wordwheel/internal/model"
)

// ParseFrame decodes one tick frame. Two framings are accepted:
//
//	E1:<int>,E2:<int>
//	{"encoder1": <int>, "encoder2": <int>}
//
// Anything else is an error; callers drop the frame and keep going.
func ParseFrame(line string) (model.TickPair, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.TickPair{}, fmt.Errorf("empty frame")
	}
	if strings.HasPrefix(line, "{") {
		return parseJSONFrame(line)
	}
	return parseTextFrame(line)
}

func parseTextFrame(line string) (model.TickPair, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return model.TickPair{}, fmt.Errorf("malformed frame %q", line)
	}
	e1, err := parseField(parts[0], "E1")
	if err != nil {
		return model.TickPair{}, err
	}
	e2, err := parseField(parts[1], "E2")
	if err != nil {
		return model.TickPair{}, err
	}
	return model.TickPair{Encoder1: e1, Encoder2: e2}, nil
}

func parseField(part, key string) (int, error) {
	part = strings.TrimSpace(part)
	prefix := key + ":"
	if !strings.HasPrefix(part, prefix) {
		return 0, fmt.Errorf("missing %s field in %q", key, part)
	}
	value, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(part, prefix)))
	if err != nil {
		return 0, fmt.Errorf("bad %s value: %w", key, err)
	}
	return value, nil
}

func parseJSONFrame(line string) (model.TickPair, error) {
	// Pointer fields so a frame missing either counter is rejected rather
	// than defaulting to zero.
	var frame struct {
		Encoder1 *int `json:"encoder1"`
		Encoder2 *int `json:"encoder2"`
	}
	if err := json.Unmarshal([]byte(line), &frame); err != nil {
		return model.TickPair{}, fmt.Errorf("bad JSON frame: %w", err)
	}
	if frame.Encoder1 == nil || frame.Encoder2 == nil {
		return model.TickPair{}, fmt.Errorf("JSON frame missing encoder fields")
	}
	return model.TickPair{Encoder1: *frame.Encoder1, Encoder2: *frame.Encoder2}, nil
}
