package fusion

import (
	"math"
	"testing"
)

func TestNormalizeDelta(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{359, -1},
		{-359, 1},
		{720, 0},
	}
	for _, c := range cases {
		got := NormalizeDelta(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("NormalizeDelta(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMouseDeltaSeamCrossing(t *testing.T) {
	var d Dial
	// Pointer sweeps from 179 to -179: the raw difference is -358 but the
	// physical movement is +2 degrees.
	d.ApplyMouseDelta(-358)
	if math.Abs(d.Effective()-2) > 1e-9 {
		t.Fatalf("expected 2 degrees, got %v", d.Effective())
	}
}

func TestTickDeltaConservation(t *testing.T) {
	// Any chunking of small deltas must sum to 3.6 * total.
	var a, b Dial
	seq := []int{0, 5, 3, 10, -20, 40, 35, 100}
	for i := 1; i < len(seq); i++ {
		a.ApplyTick(seq[i-1], seq[i])
	}
	b.ApplyTick(seq[0], seq[len(seq)-1])
	want := float64(seq[len(seq)-1]-seq[0]) * DegreesPerDetent
	if math.Abs(a.Effective()-want) > 1e-9 {
		t.Fatalf("chunked accumulation = %v, want %v", a.Effective(), want)
	}
	if math.Abs(b.Effective()-want) > 1e-9 {
		t.Fatalf("single-step accumulation = %v, want %v", b.Effective(), want)
	}
}

func TestTickEqualCountersNoop(t *testing.T) {
	var d Dial
	d.ApplyTick(7, 7)
	if d.Effective() != 0 {
		t.Fatalf("equal counters must not move the dial, got %v", d.Effective())
	}
}

func TestTickDesyncJumpsToAbsolute(t *testing.T) {
	var d Dial
	if d.ApplyTick(0, 10) {
		t.Fatalf("small delta must not report a desync")
	}
	// Counter jumps by 500: device reset, treat 510 as an absolute position.
	if !d.ApplyTick(10, 510) {
		t.Fatalf("large jump must report a desync")
	}
	want := 510 * DegreesPerDetent
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("expected absolute %v, got %v", want, d.Effective())
	}
}

func TestTickDesyncNegative(t *testing.T) {
	var d Dial
	d.ApplyTick(0, -400)
	want := -400 * DegreesPerDetent
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("expected absolute %v, got %v", want, d.Effective())
	}
}

func TestResyncIdempotence(t *testing.T) {
	var d Dial
	d.ApplyMouseDelta(45)
	d.ApplyTick(0, 50)
	d.Resync(20)
	want := 45 + 20*DegreesPerDetent
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("resync must set hardware to 3.6*c, got %v want %v", d.Effective(), want)
	}
	// A tick using the resync counter as baseline is a no-op.
	d.ApplyTick(20, 20)
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("tick at resync baseline moved the dial: %v", d.Effective())
	}
	d.Resync(20)
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("repeated resync changed the dial: %v", d.Effective())
	}
}

func TestMouseAndHardwareIndependence(t *testing.T) {
	var d Dial
	d.ApplyMouseDelta(30)
	d.ApplyTick(0, 200) // desync path
	d.ApplyTick(200, 201)
	want := 30 + 201*DegreesPerDetent
	if math.Abs(d.Effective()-want) > 1e-9 {
		t.Fatalf("contributions must sum independently, got %v want %v", d.Effective(), want)
	}
}
