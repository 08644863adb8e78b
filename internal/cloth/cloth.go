// Package cloth implements the mass-spring cloth state, the spherical
// obstacles it collides with, their randomized scene layout and the explicit
// integrator that advances them.
package cloth

import (
	"fmt"

	"github.com/Faultbox/cloth-sim/pkg/math"
)

// Sheet placement used by Initialize.
const (
	sheetHeight = 0.6
	sheetOrigin = 0.5
	sheetJitter = 0.1
)

// Cloth is a Rows x Cols grid of unit-mass points. Point (i, j) is stored at
// index i*Cols + j in Position and Velocity.
type Cloth struct {
	Rows     int
	Cols     int
	QuadSize float32 // rest distance between axis-adjacent points

	Position []math.Vec3
	Velocity []math.Vec3
}

// New allocates a cloth grid. All points start at the origin at rest; call
// Initialize (or SceneInitializer.Reset) before stepping it.
func New(rows, cols int, quadSize float32) (*Cloth, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, rows, cols)
	}
	if !(quadSize > 0) {
		return nil, fmt.Errorf("%w: quad size %v", ErrInvalidGrid, quadSize)
	}
	n := rows * cols
	return &Cloth{
		Rows:     rows,
		Cols:     cols,
		QuadSize: quadSize,
		Position: make([]math.Vec3, n),
		Velocity: make([]math.Vec3, n),
	}, nil
}

// Index returns the flat index of point (i, j).
func (c *Cloth) Index(i, j int) int {
	return i*c.Cols + j
}

// InBounds reports whether (i, j) is a point of the grid.
func (c *Cloth) InBounds(i, j int) bool {
	return i >= 0 && i < c.Rows && j >= 0 && j < c.Cols
}

// Len returns the number of points.
func (c *Cloth) Len() int {
	return c.Rows * c.Cols
}

// At returns the position of point (i, j).
func (c *Cloth) At(i, j int) math.Vec3 {
	return c.Position[c.Index(i, j)]
}

// Initialize lays the sheet flat on the X-Z plane at a fixed height and
// zeroes every velocity. One X and one Z offset in [-0.05, 0.05) are drawn
// per call and shared by all points, so the whole sheet shifts without
// changing shape.
func (c *Cloth) Initialize(rng Rand) {
	jx := sheetJitter * (rng.Float32() - 0.5)
	jz := sheetJitter * (rng.Float32() - 0.5)

	for i := 0; i < c.Rows; i++ {
		x := float32(i)*c.QuadSize - sheetOrigin + jx
		for j := 0; j < c.Cols; j++ {
			p := c.Index(i, j)
			c.Position[p] = math.Vec3{
				X: x,
				Y: sheetHeight,
				Z: float32(j)*c.QuadSize - sheetOrigin + jz,
			}
			c.Velocity[p] = math.Vec3{}
		}
	}
}

// Bounds returns the axis-aligned bounding box of all point positions.
func (c *Cloth) Bounds() (lo, hi math.Vec3) {
	lo, hi = c.Position[0], c.Position[0]
	for _, p := range c.Position[1:] {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi
}

// KineticEnergy returns the total kinetic energy of the unit-mass points.
func (c *Cloth) KineticEnergy() float64 {
	var e float64
	for _, v := range c.Velocity {
		e += 0.5 * float64(v.Dot(v))
	}
	return e
}
