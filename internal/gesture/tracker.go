package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Config holds the tunable thresholds for gesture tracking.
type Config struct {
	// RotateDeadzone suppresses palm deltas where both axes stay below
	// this many normalized units, rejecting hand jitter.
	RotateDeadzone float64

	// RotateSmoothing is the exponential smoothing factor applied to palm
	// deltas before they become rotate events (0 = frozen, 1 = raw).
	RotateSmoothing float64

	// ZoomOutBelow: a pinch distance under this emits ZoomOut.
	ZoomOutBelow float64

	// ZoomInAbove: a pinch distance over this emits ZoomIn.
	ZoomInAbove float64
}

// DefaultConfig returns a Config with the tuned default thresholds.
func DefaultConfig() Config {
	return Config{
		RotateDeadzone:  0.005,
		RotateSmoothing: 0.4,
		ZoomOutBelow:    0.05,
		ZoomInAbove:     0.12,
	}
}

type palmPosition struct {
	x, y float64
}

// Tracker is the per-frame gesture state machine. It keeps the hysteresis
// state that turns noisy pose classifications into debounced events: the
// previous fist state (so Grab fires once per fist), the last palm position
// (for rotate deltas) and the rotate smoothing accumulator.
//
// Process is called once per frame from a single goroutine; Tracker is not
// safe for concurrent use.
type Tracker struct {
	cfg Config

	wasFist  bool
	lastPalm *palmPosition
	smoothed palmPosition
}

// NewTracker creates a Tracker with the given thresholds.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Reset clears all tracking state back to defaults.
func (t *Tracker) Reset() {
	t.wasFist = false
	t.lastPalm = nil
	t.smoothed = palmPosition{}
}

// Process consumes one frame of detected hands and returns the single
// gesture event for that frame. Only the first hand is considered.
// previewMode disables rotation while an object is being previewed.
func (t *Tracker) Process(hands []detector.HandLandmarks, previewMode bool) Event {
	if len(hands) == 0 {
		t.Reset()
		return idle(LabelNoActive)
	}

	hand := &hands[0]
	features := ClassifyPose(hand)

	switch {
	case features.IsFist:
		// Edge-triggered: one Grab per contiguous fist run, so a single
		// fist selects a single object.
		firstFrame := !t.wasFist
		t.wasFist = true
		t.lastPalm = nil
		if firstFrame {
			return Event{Kind: KindGrab, Label: LabelGrab}
		}
		return idle(LabelHolding)

	case features.IsOpenPalm:
		// Level-triggered: fires every open-palm frame, idempotent at the
		// camera controller.
		t.wasFist = false
		t.lastPalm = nil
		return Event{Kind: KindRelease, Label: LabelRelease}

	case features.IsTwoFingerPoint && !previewMode:
		t.wasFist = false
		palm := hand.PalmCenter()
		current := palmPosition{x: palm.X, y: palm.Y}
		previous := t.lastPalm
		t.lastPalm = &current

		if previous == nil {
			return idle(LabelIdle)
		}

		dx := current.x - previous.x
		dy := current.y - previous.y
		if math.Abs(dx) < t.cfg.RotateDeadzone && math.Abs(dy) < t.cfg.RotateDeadzone {
			return idle(LabelIdle)
		}

		t.smoothed.x = lerp(t.smoothed.x, dx, t.cfg.RotateSmoothing)
		t.smoothed.y = lerp(t.smoothed.y, dy, t.cfg.RotateSmoothing)

		// X is negated to match the mirrored camera view.
		return Event{
			Kind:  KindRotate,
			DX:    -t.smoothed.x,
			DY:    t.smoothed.y,
			Label: LabelOrbit,
		}

	case features.IsTwoFingerPoint:
		// Rotation is disabled while previewing.
		t.wasFist = false
		return idle(LabelIdle)

	default:
		// No discrete pose: read the thumb-index gap as a continuous
		// pinch/spread zoom.
		t.wasFist = false
		t.lastPalm = nil

		switch {
		case features.PinchDistance < t.cfg.ZoomOutBelow:
			return Event{Kind: KindZoomOut, Label: LabelZoomOut}
		case features.PinchDistance > t.cfg.ZoomInAbove:
			return Event{Kind: KindZoomIn, Label: LabelZoomIn}
		default:
			return idle(LabelIdle)
		}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
