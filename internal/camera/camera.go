// Package camera implements the orbit camera model, the gesture-event
// controller that drives it, and the focus/restore animator.
package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the camera's projection and starting pose parameters.
// Angles are radians.
type Config struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	// StartDistance is the initial orbit radius around the target.
	StartDistance float64

	// PolarMargin keeps the polar angle this far from the poles so the
	// view never degenerates at straight-up or straight-down.
	PolarMargin float64
}

// DefaultConfig returns a Config with the tuned default values.
func DefaultConfig() Config {
	return Config{
		FOV:           mgl64.DegToRad(50),
		Aspect:        16.0 / 9.0,
		Near:          0.1,
		Far:           100.0,
		StartDistance: 8.0,
		PolarMargin:   0.1,
	}
}

// Camera is an orbit camera: azimuth and polar angles plus a distance
// around a target point. The position is derived from the spherical
// parameters; SetPose re-derives them from an arbitrary position/target
// pair so animation can drive the camera through poses that are not on the
// current orbit sphere.
//
// Mutation happens on the control pipeline goroutine; reads may come from
// the HTTP/WebSocket goroutines, hence the lock.
type Camera struct {
	mu sync.RWMutex

	azimuth  float64
	polar    float64
	distance float64
	target   mgl64.Vec3

	fov         float64
	aspect      float64
	near        float64
	far         float64
	polarMargin float64
}

// New creates a Camera at the configured start distance, on the equator of
// its orbit sphere, looking at the origin.
func New(cfg Config) *Camera {
	return &Camera{
		azimuth:     0,
		polar:       math.Pi / 2,
		distance:    cfg.StartDistance,
		target:      mgl64.Vec3{},
		fov:         cfg.FOV,
		aspect:      cfg.Aspect,
		near:        cfg.Near,
		far:         cfg.Far,
		polarMargin: cfg.PolarMargin,
	}
}

// positionLocked derives the world position from the spherical parameters.
// Callers must hold the lock.
func (c *Camera) positionLocked() mgl64.Vec3 {
	sinPolar := math.Sin(c.polar)
	return mgl64.Vec3{
		c.target.X() + c.distance*sinPolar*math.Sin(c.azimuth),
		c.target.Y() + c.distance*math.Cos(c.polar),
		c.target.Z() + c.distance*sinPolar*math.Cos(c.azimuth),
	}
}

// Position returns the camera's world position.
func (c *Camera) Position() mgl64.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.positionLocked()
}

// Target returns the orbit target point.
func (c *Camera) Target() mgl64.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// Pose returns the position and target as one consistent snapshot.
func (c *Camera) Pose() (position, target mgl64.Vec3) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.positionLocked(), c.target
}

// Forward returns the unit view direction from the camera toward its
// target. A degenerate pose yields -Z rather than NaN.
func (c *Camera) Forward() mgl64.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := c.target.Sub(c.positionLocked())
	if dir.Len() < 1e-9 {
		return mgl64.Vec3{0, 0, -1}
	}
	return dir.Normalize()
}

// Azimuth returns the azimuth angle in radians.
func (c *Camera) Azimuth() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.azimuth
}

// Polar returns the polar angle in radians.
func (c *Camera) Polar() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.polar
}

// Distance returns the orbit radius.
func (c *Camera) Distance() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.distance
}

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fov
}

// SetAzimuth sets the azimuth angle in radians.
func (c *Camera) SetAzimuth(a float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = a
}

// SetPolar sets the polar angle, saturating inside the pole margin.
func (c *Camera) SetPolar(p float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polar = c.clampPolar(p)
}

// SetTarget moves the orbit target point.
func (c *Camera) SetTarget(t mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

// Orbit applies angle deltas to the spherical parameters, saturating the
// polar angle inside the pole margin.
func (c *Camera) Orbit(dAzimuth, dPolar float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += dAzimuth
	c.polar = c.clampPolar(c.polar + dPolar)
}

func (c *Camera) clampPolar(p float64) float64 {
	return math.Max(c.polarMargin, math.Min(math.Pi-c.polarMargin, p))
}

// SetPose places the camera at an explicit position/target pair,
// re-deriving the spherical parameters. The polar clamp does not apply
// here; gimbal protection is an orbit-input concern, and the animator must
// be able to reach any pose it interpolates through.
func (c *Camera) SetPose(position, target mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := position.Sub(target)
	dist := offset.Len()
	if dist < 1e-9 {
		// Degenerate: keep the current orientation, collapse the radius.
		c.distance = dist
		c.target = target
		return
	}

	c.distance = dist
	c.polar = math.Acos(mgl64.Clamp(offset.Y()/dist, -1, 1))
	c.azimuth = math.Atan2(offset.X(), offset.Z())
	c.target = target
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl64.LookAtV(c.positionLocked(), c.target, mgl64.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection transform.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl64.Perspective(c.fov, c.aspect, c.near, c.far)
}

// ViewProjection returns projection * view, the transform that takes world
// positions to clip space.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	view := mgl64.LookAtV(c.positionLocked(), c.target, mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(c.fov, c.aspect, c.near, c.far)
	return proj.Mul4(view)
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
