package camera

import (
	"github.com/ayusman/mudra/internal/gesture"
)

// ControllerConfig holds the tunables mapping gesture events to camera
// motion.
type ControllerConfig struct {
	// RotateSensitivity converts normalized palm deltas into radians.
	// Typical hand motion is 0.01-0.05 units per frame.
	RotateSensitivity float64

	// ZoomStep is how far one zoom event dollies the camera, in world
	// units.
	ZoomStep float64

	// MinOriginDistance rejects zoom-in steps that would bring the camera
	// closer than this to the world origin.
	MinOriginDistance float64

	// MaxOriginDistance rejects zoom-out steps that would take the camera
	// farther than this from the world origin.
	MaxOriginDistance float64
}

// DefaultControllerConfig returns a ControllerConfig with the tuned default
// values.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		RotateSensitivity: 20.0,
		ZoomStep:          0.5,
		MinOriginDistance: 2.0,
		MaxOriginDistance: 30.0,
	}
}

// Picker finds the object a grab most plausibly points at. Implemented by
// the scene selector.
type Picker interface {
	Pick() (FocusTarget, bool)
}

// Controller applies gesture events to the camera. Rotate orbits, zoom
// dollies position and target together, grab runs the picker and focuses
// the hit, release hands control back to the restore animation.
type Controller struct {
	cam      *Camera
	animator *FocusAnimator
	picker   Picker
	cfg      ControllerConfig
}

// NewController wires a Controller. picker may be nil, in which case grab
// events are no-ops.
func NewController(cam *Camera, animator *FocusAnimator, picker Picker, cfg ControllerConfig) *Controller {
	return &Controller{
		cam:      cam,
		animator: animator,
		picker:   picker,
		cfg:      cfg,
	}
}

// HandleEvent applies one gesture event. Called once per processed frame
// from the control pipeline goroutine.
func (c *Controller) HandleEvent(ev gesture.Event) {
	switch ev.Kind {
	case gesture.KindRotate:
		// Orbit input stays off from focus entry until restore
		// convergence.
		if c.animator.InputLocked() {
			return
		}
		c.cam.Orbit(
			-ev.DX*c.cfg.RotateSensitivity,
			-ev.DY*c.cfg.RotateSensitivity,
		)

	case gesture.KindZoomIn:
		c.dolly(c.cfg.ZoomStep)

	case gesture.KindZoomOut:
		c.dolly(-c.cfg.ZoomStep)

	case gesture.KindGrab:
		if c.picker == nil {
			return
		}
		target, ok := c.picker.Pick()
		if !ok {
			return
		}
		c.animator.Focus(target)

	case gesture.KindRelease:
		c.animator.Release()
	}
}

// dolly moves position and target together along the forward vector,
// keeping the orbit radius constant. Steps that would leave the camera
// inside the minimum or beyond the maximum origin distance are rejected
// outright.
func (c *Controller) dolly(amount float64) {
	forward := c.cam.Forward().Mul(amount)
	pos, target := c.cam.Pose()
	newPos := pos.Add(forward)

	originDist := newPos.Len()
	if amount > 0 && originDist < c.cfg.MinOriginDistance {
		return
	}
	if amount < 0 && originDist > c.cfg.MaxOriginDistance {
		return
	}

	c.cam.SetPose(newPos, target.Add(forward))
}

// Tick advances the focus/restore animation.
func (c *Controller) Tick(dt float64) {
	c.animator.Tick(dt)
}

// PreviewActive reports whether a focus target is set. Fed back to the
// gesture tracker as its preview flag.
func (c *Controller) PreviewActive() bool {
	return c.animator.Focused()
}

// Animator exposes the focus animator for state snapshots.
func (c *Controller) Animator() *FocusAnimator {
	return c.animator
}
