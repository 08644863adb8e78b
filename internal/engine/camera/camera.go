// Package camera provides the orbit camera used to view the cloth scene.
package camera

import (
	gomath "math"

	"github.com/Faultbox/cloth-sim/pkg/math"
)

// OrbitCamera orbits around a target point at a given distance.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians, positive looks down on the target
	Yaw      float32 // radians around +Y, zero sits on +Z

	// Projection
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	home pose
}

// pose is the orientation Reset returns to.
type pose struct {
	distance, pitch, yaw float32
}

// NewOrbitCamera creates a camera on the +Z axis at distance looking at the
// origin.
func NewOrbitCamera(distance, fov, near, far float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		FOV:             fov,
		Near:            near,
		Far:             far,
		MinDistance:     near * 2,
		MaxDistance:     far / 2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		home:            pose{distance: distance},
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp, sp := gomath.Cos(float64(c.Pitch)), gomath.Sin(float64(c.Pitch))
	cy, sy := gomath.Cos(float64(c.Yaw)), gomath.Sin(float64(c.Yaw))
	return c.Target.Add(math.Vec3{
		X: c.Distance * float32(cp*sy),
		Y: c.Distance * float32(sp),
		Z: c.Distance * float32(cp*cy),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for the given
// width/height ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	fovY := float32(float64(c.FOV) * gomath.Pi / 180)
	return math.Perspective(fovY, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = clamp(c.Pitch, -c.MaxPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Reset returns to the pose the camera was created with.
func (c *OrbitCamera) Reset() {
	c.Target = math.Vec3{}
	c.Distance = c.home.distance
	c.Pitch = c.home.pitch
	c.Yaw = c.home.yaw
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
