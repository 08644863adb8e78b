// Package mesh derives renderable vertex and index buffers from the cloth
// and obstacle state.
package mesh

import (
	"errors"

	"github.com/Faultbox/cloth-sim/pkg/math"
)

// Vertex layouts, in floats per vertex.
const (
	// ClothStride is position(3) + color(3) + normal(3).
	ClothStride = 9
	// SphereStride is position(3) + normal(3).
	SphereStride = 6
)

// Attribute offsets within a cloth vertex.
const (
	clothPosOffset    = 0
	clothColorOffset  = 3
	clothNormalOffset = 6
)

// Checkerboard colors for the cloth, in 4x4 point tiles.
var (
	ColorBlue   = math.Vec3{X: 0, Y: 0.5, Z: 1}
	ColorOrange = math.Vec3{X: 1, Y: 0.5, Z: 0}
)

// ErrSizeMismatch is returned when a builder is fed state of a different
// size than it was built for.
var ErrSizeMismatch = errors.New("mesh size mismatch")

// triangleNormal returns the unit normal (b-a) x (c-a), or zero for a
// degenerate triangle.
func triangleNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}
