// Package scene maintains the registry of interactable objects and resolves
// which of them a grab gesture is aimed at.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/camera"
)

// Object is one interactable scene element. Normal is the facing direction
// of the object's front surface; Width and Height are its world-space
// bounding extents.
type Object struct {
	ID       string
	Name     string
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Width    float64
	Height   float64
}

// FocusTarget converts the object into the pose the focus animator frames.
// The object ID doubles as the re-selection handle.
func (o Object) FocusTarget() camera.FocusTarget {
	return camera.FocusTarget{
		Position: o.Position,
		Normal:   o.Normal,
		Width:    o.Width,
		Height:   o.Height,
		Handle:   o.ID,
	}
}
