// Package camera provides view matrices for inspecting a loaded model.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle (radians)
	Yaw      float32 // Horizontal angle (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates an orbit camera looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    5,
		Pitch:       0.5,
		MinDistance: 0.01,
		MaxDistance: 1e6,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		c.Distance * cosPitch * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cosPitch * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Orbit rotates the camera by the given angles, clamping pitch.
func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// Zoom scales the distance by factor, clamped to the distance limits.
func (c *OrbitCamera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see all of it.
func (c *OrbitCamera) FitToBounds(min, max mgl32.Vec3) {
	c.Center = min.Add(max).Mul(0.5)

	radius := max.Sub(min).Len() / 2
	c.Distance = mgl32.Clamp(radius*2.5, c.MinDistance, c.MaxDistance)
	c.Pitch = mgl32.Clamp(0.6, c.MinPitch, c.MaxPitch) // Look down at ~35 degrees
	c.Yaw = 0
}
