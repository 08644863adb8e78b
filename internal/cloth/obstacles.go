package cloth

import (
	"fmt"

	"github.com/Faultbox/cloth-sim/pkg/math"
)

// Obstacles is a fixed set of kinematic spheres sharing one radius. Centers
// only change through Initialize.
type Obstacles struct {
	Centers []math.Vec3
	Radius  float32

	// QuadSizeBall is the layout spacing 1/count set by Initialize. It is not
	// a physical size.
	QuadSizeBall float32
}

// NewObstacles allocates count spheres at the origin. An empty set is valid
// and makes the integrator skip collision handling.
func NewObstacles(count int, radius float32) (*Obstacles, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidObstacles, count)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidObstacles, radius)
	}
	return &Obstacles{
		Centers: make([]math.Vec3, count),
		Radius:  radius,
	}, nil
}

// Count returns the number of spheres.
func (o *Obstacles) Count() int {
	return len(o.Centers)
}

// Initialize spreads the spheres along the X=Z diagonal under the sheet with
// a little random jitter per axis. Draws are taken in obstacle order, x then
// y then z, so a seeded source gives a reproducible layout.
func (o *Obstacles) Initialize(rng Rand) {
	if len(o.Centers) == 0 {
		return
	}
	o.QuadSizeBall = 1 / float32(len(o.Centers))

	for k := range o.Centers {
		base := float32(k)*o.QuadSizeBall - 0.4
		x := (base + (rng.Float32()-0.5)/15) * 0.9
		y := ((rng.Float32()-0.5)/3 - 0.1) * 0.9
		z := (base + (rng.Float32()-0.5)/15) * 0.9
		o.Centers[k] = math.Vec3{X: x, Y: y, Z: z}
	}
}
