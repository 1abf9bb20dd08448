package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FocusTarget describes the object the camera is framing: where it is,
// which way its front faces, how big it is, and an opaque handle for
// re-selection.
type FocusTarget struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Width    float64
	Height   float64
	Handle   string
}

// AnimatorConfig holds the focus/restore interpolation parameters.
type AnimatorConfig struct {
	// Rate is the exponential approach rate per second.
	Rate float64

	// Epsilon is the position error below which a restore is complete.
	Epsilon float64

	// FrameMargin scales the ideal viewing distance so the object gets
	// breathing room inside the frame.
	FrameMargin float64
}

// DefaultAnimatorConfig returns an AnimatorConfig with the tuned default
// values.
func DefaultAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		Rate:        4.0,
		Epsilon:     0.1,
		FrameMargin: 1.3,
	}
}

type savedPose struct {
	position mgl64.Vec3
	target   mgl64.Vec3
}

// FocusAnimator moves the camera smoothly into a framing pose in front of a
// focused object and back to the pre-focus pose on release. Two states:
// free (no target, no snapshot) and focused, with a converging restore tail
// between focused and free.
//
// The pre-focus snapshot is taken once, when focus begins from the free
// state, and survives focus retargeting; release always restores the pose
// the camera had before the first focus.
//
// All methods run on the control pipeline goroutine.
type FocusAnimator struct {
	cam *Camera
	cfg AnimatorConfig

	target *FocusTarget
	saved  *savedPose
}

// NewFocusAnimator creates a FocusAnimator driving the given camera.
func NewFocusAnimator(cam *Camera, cfg AnimatorConfig) *FocusAnimator {
	return &FocusAnimator{cam: cam, cfg: cfg}
}

// Focus begins (or retargets) framing of the given object. The camera pose
// is snapshotted only if no snapshot is currently held.
func (a *FocusAnimator) Focus(target FocusTarget) {
	if a.saved == nil {
		pos, tgt := a.cam.Pose()
		a.saved = &savedPose{position: pos, target: tgt}
	}
	t := target
	a.target = &t
}

// Release clears the focus target. If a snapshot is held the following
// ticks interpolate the camera back to it.
func (a *FocusAnimator) Release() {
	a.target = nil
}

// Focused reports whether a focus target is active (preview mode).
func (a *FocusAnimator) Focused() bool {
	return a.target != nil
}

// Restoring reports whether the camera is on its way back to the saved
// pose.
func (a *FocusAnimator) Restoring() bool {
	return a.target == nil && a.saved != nil
}

// InputLocked reports whether external orbit input should be ignored:
// while focused and until a restore has converged.
func (a *FocusAnimator) InputLocked() bool {
	return a.saved != nil
}

// Target returns a copy of the active focus target, or nil.
func (a *FocusAnimator) Target() *FocusTarget {
	if a.target == nil {
		return nil
	}
	t := *a.target
	return &t
}

// Tick advances the animation by dt seconds. Interpolation is scaled by
// elapsed time, so convergence behavior does not depend on the frame rate.
func (a *FocusAnimator) Tick(dt float64) {
	if dt <= 0 {
		return
	}

	step := a.cfg.Rate * dt
	if step > 1 {
		step = 1
	}

	switch {
	case a.target != nil:
		ideal := a.idealPosition(*a.target)
		pos, tgt := a.cam.Pose()
		a.cam.SetPose(
			lerpVec(pos, ideal, step),
			lerpVec(tgt, a.target.Position, step),
		)

	case a.saved != nil:
		pos, tgt := a.cam.Pose()
		newPos := lerpVec(pos, a.saved.position, step)
		if newPos.Sub(a.saved.position).Len() < a.cfg.Epsilon {
			// Converged: land on the exact snapshot, not an
			// interpolated pose.
			a.cam.SetPose(a.saved.position, a.saved.target)
			a.saved = nil
			return
		}
		a.cam.SetPose(newPos, lerpVec(tgt, a.saved.target, step))
	}
}

// idealPosition computes the framing pose: offset from the object along its
// facing normal far enough that the object's height fills the view with
// FrameMargin slack.
func (a *FocusAnimator) idealPosition(t FocusTarget) mgl64.Vec3 {
	distance := (t.Height / 2) / math.Tan(a.cam.FOV()/2) * a.cfg.FrameMargin

	normal := t.Normal
	if normal.Len() < 1e-9 {
		// Degenerate normal: approach from where the camera already is.
		pos, _ := a.cam.Pose()
		normal = pos.Sub(t.Position)
		if normal.Len() < 1e-9 {
			normal = mgl64.Vec3{0, 0, 1}
		}
	}
	return t.Position.Add(normal.Normalize().Mul(distance))
}
