// Package fusion combines mouse-drag and hardware-tick input into one
// continuous angle per dial.
package fusion

// DegreesPerDetent is the fixed hardware gain: 100 detents = one revolution.
const DegreesPerDetent = 3.6

// desyncThreshold is the largest counter jump still treated as incremental
// movement. Anything larger means the device reset or the counter wrapped,
// so the new count is reinterpreted as an absolute position.
const desyncThreshold = 100

// Dial accumulates two independent angle contributions. The effective angle
// is their sum; it grows without wraparound and is never normalized.
type Dial struct {
	mouse    float64
	hardware float64
}

// ApplyMouseDelta adds an incremental drag delta in degrees. The delta is
// normalized into (-180, 180] first so a raw angle measurement crossing the
// -180/180 seam cannot inject a spurious full turn.
func (d *Dial) ApplyMouseDelta(deg float64) {
	d.mouse += NormalizeDelta(deg)
}

// ApplyTick folds a hardware counter change into the hardware contribution.
// Equal counters are a no-op. A jump beyond the desync threshold resets the
// contribution to the counter's absolute position; smaller deltas accumulate
// incrementally so no movement is lost to rounding. Returns whether the
// desync path was taken, so consumers can re-baseline instead of reading
// the jump as rotation.
func (d *Dial) ApplyTick(prev, next int) bool {
	if next == prev {
		return false
	}
	delta := next - prev
	if delta > desyncThreshold || delta < -desyncThreshold {
		d.hardware = float64(next) * DegreesPerDetent
		return true
	}
	d.hardware += float64(delta) * DegreesPerDetent
	return false
}

// Resync sets the hardware contribution to the counter's absolute position,
// discarding whatever baseline the dial had before a connection drop.
func (d *Dial) Resync(counter int) {
	d.hardware = float64(counter) * DegreesPerDetent
}

// Effective returns the dial's effective angle in degrees.
func (d *Dial) Effective() float64 {
	return d.mouse + d.hardware
}

// NormalizeDelta maps an angle difference into (-180, 180].
func NormalizeDelta(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
