package gesture

// Kind identifies a discrete gesture event.
type Kind string

const (
	KindGrab    Kind = "grab"
	KindRelease Kind = "release"
	KindRotate  Kind = "rotate"
	KindZoomIn  Kind = "zoom_in"
	KindZoomOut Kind = "zoom_out"
	KindIdle    Kind = "idle"
)

// Human-readable labels surfaced to UI observers.
const (
	LabelGrab     = "grab"
	LabelRelease  = "release"
	LabelOrbit    = "orbit"
	LabelZoomIn   = "zoom in"
	LabelZoomOut  = "zoom out"
	LabelHolding  = "holding"
	LabelIdle     = "idle"
	LabelNoActive = "no active gesture"
)

// Event is a single gesture event. At most one is produced per processed
// frame; it is consumed immediately and never queued.
type Event struct {
	Kind Kind `json:"kind"`

	// DX and DY carry the smoothed palm delta for rotate events, already
	// sign-adjusted for the mirrored camera view. Zero otherwise.
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// Label is the display text for UI feedback.
	Label string `json:"label"`
}

// idle builds an Idle event with the given label.
func idle(label string) Event {
	return Event{Kind: KindIdle, Label: label}
}
