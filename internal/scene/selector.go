package scene

import (
	"math"

	"github.com/ayusman/mudra/internal/camera"
)

// SelectorConfig bounds the pick search.
type SelectorConfig struct {
	// CenterWindow is the NDC half-window a candidate's center must fall
	// inside. Generous so imprecise aim still hits.
	CenterWindow float64

	// MaxAlignment discards candidates facing away or nearly edge-on.
	// Alignment is dot(view direction, facing normal): -1 is face-on.
	MaxAlignment float64

	// TieBand is the alignment difference under which two candidates
	// count as equally good and the nearer one wins.
	TieBand float64
}

// DefaultSelectorConfig returns the reference pick thresholds.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		CenterWindow: 0.8,
		MaxAlignment: 0.2,
		TieBand:      0.1,
	}
}

// Selector finds the registered object a grab is aimed at: the most
// directly camera-facing object near the center of the view. It runs only
// on the grab edge, so the full registry scan per pick is fine.
type Selector struct {
	registry *Registry
	cam      *camera.Camera
	cfg      SelectorConfig
}

// NewSelector creates a selector over the given registry and camera.
func NewSelector(registry *Registry, cam *camera.Camera, cfg SelectorConfig) *Selector {
	return &Selector{registry: registry, cam: cam, cfg: cfg}
}

type candidate struct {
	obj       Object
	alignment float64
	distance  float64
}

// Pick returns the best grab target, or false if nothing qualifies.
func (s *Selector) Pick() (camera.FocusTarget, bool) {
	vp := s.cam.ViewProjection()
	camPos := s.cam.Position()
	forward := s.cam.Forward()

	var candidates []candidate
	for _, obj := range s.registry.List() {
		normal := obj.Normal
		if normal.Len() < 1e-9 {
			continue
		}
		normal = normal.Normalize()

		clip := vp.Mul4x1(obj.Position.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		ndcX := clip.X() / clip.W()
		ndcY := clip.Y() / clip.W()
		ndcZ := clip.Z() / clip.W()
		if ndcZ < -1 || ndcZ > 1 {
			continue
		}
		if math.Abs(ndcX) >= s.cfg.CenterWindow || math.Abs(ndcY) >= s.cfg.CenterWindow {
			continue
		}

		alignment := forward.Dot(normal)
		if alignment >= s.cfg.MaxAlignment {
			continue
		}

		candidates = append(candidates, candidate{
			obj:       obj,
			alignment: alignment,
			distance:  obj.Position.Sub(camPos).Len(),
		})
	}

	if len(candidates) == 0 {
		return camera.FocusTarget{}, false
	}

	// Best alignment first; anything within the tie band of it competes
	// on camera distance instead.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.alignment < best.alignment {
			best = c
		}
	}
	winner := best
	for _, c := range candidates {
		if c.alignment-best.alignment < s.cfg.TieBand && c.distance < winner.distance {
			winner = c
		}
	}

	return winner.obj.FocusTarget(), true
}
