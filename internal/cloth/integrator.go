package cloth

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/cloth-sim/internal/parallel"
	"github.com/Faultbox/cloth-sim/pkg/math"
)

// Params holds the physical constants of the integrator.
type Params struct {
	Gravity        math.Vec3
	SpringY        float32 // Hookean stiffness
	DashpotDamping float32 // damping along each spring
	DragDamping    float32 // isotropic air drag rate
	Friction       float32 // velocity scale applied while touching an obstacle
}

// DefaultParams returns the reference constants.
func DefaultParams() Params {
	return Params{
		Gravity:        math.Vec3{Y: -9.8},
		SpringY:        1e4,
		DashpotDamping: 1e4,
		DragDamping:    1,
		Friction:       0.99,
	}
}

// PairForce returns the spring plus dashpot force that point j exerts on
// point i, for springs of the given rest length on a grid of quadSize.
// Swapping i and j negates the result.
func (p Params) PairForce(xi, xj, vi, vj math.Vec3, rest, quadSize float32) (math.Vec3, error) {
	diff := xi.Sub(xj)
	dist := diff.Length()
	if dist == 0 {
		return math.Vec3{}, ErrDegenerate
	}
	d := diff.Scale(1 / dist)

	spring := d.Scale(-p.SpringY * (dist/rest - 1))
	dashpot := d.Scale(-vi.Sub(vj).Dot(d) * p.DashpotDamping * quadSize)
	return spring.Add(dashpot), nil
}

// Integrator advances a cloth by explicit Euler substeps. It keeps a
// velocity snapshot between calls to avoid reallocating it; an Integrator
// must not be shared by concurrent Substep calls.
type Integrator struct {
	params  Params
	workers int

	snapshot []math.Vec3
}

// NewIntegrator creates an integrator spreading each phase over workers
// goroutines (zero means one per CPU).
func NewIntegrator(params Params, workers int) *Integrator {
	return &Integrator{
		params:  params,
		workers: parallel.Workers(workers),
	}
}

// Params returns the integrator constants.
func (in *Integrator) Params() Params {
	return in.params
}

// Substep advances c by dt against the obstacle set, which may be nil.
//
// Forces are accumulated from a snapshot of the velocities taken at the
// start of the call, so no point sees a neighbor's updated velocity. Drag,
// collision and the position update run only after every velocity has been
// updated. On error the cloth is left partially stepped and should be
// reinitialized.
func (in *Integrator) Substep(c *Cloth, obs *Obstacles, dt float32) error {
	if c == nil {
		return fmt.Errorf("%w: nil cloth", ErrInvalidGrid)
	}
	if !(dt > 0) || gomath.IsInf(float64(dt), 0) {
		return fmt.Errorf("%w: dt %v", ErrInvalidTimeStep, dt)
	}

	if len(in.snapshot) != len(c.Velocity) {
		in.snapshot = make([]math.Vec3, len(c.Velocity))
	}
	copy(in.snapshot, c.Velocity)

	if err := parallel.Rows(c.Rows, in.workers, func(i int) error {
		return in.accumulateRow(c, i, dt)
	}); err != nil {
		return fmt.Errorf("accumulating forces: %w", err)
	}

	decay := float32(gomath.Exp(float64(-in.params.DragDamping * dt)))
	if err := parallel.Rows(c.Rows, in.workers, func(i int) error {
		return in.advanceRow(c, obs, i, dt, decay)
	}); err != nil {
		return fmt.Errorf("resolving collisions: %w", err)
	}
	return nil
}

// accumulateRow sums gravity and spring forces for row i and applies them
// to the velocities.
func (in *Integrator) accumulateRow(c *Cloth, i int, dt float32) error {
	pos, vel := c.Position, in.snapshot
	var buf [MaxLinks]Link
	for j := 0; j < c.Cols; j++ {
		p := c.Index(i, j)
		force := in.params.Gravity

		for _, l := range c.AppendLinks(buf[:0], i, j) {
			q := l.Index
			f, err := in.params.PairForce(pos[p], pos[q], vel[p], vel[q], c.QuadSize*l.Spring.RestFactor, c.QuadSize)
			if err != nil {
				return fmt.Errorf("%w: points (%d,%d) and (%d,%d) coincide", err, i, j, l.I, l.J)
			}
			force = force.Add(f)
		}

		c.Velocity[p] = vel[p].Add(force.Scale(dt))
	}
	return nil
}

// advanceRow applies drag and obstacle response to row i and moves it.
func (in *Integrator) advanceRow(c *Cloth, obs *Obstacles, i int, dt, decay float32) error {
	for j := 0; j < c.Cols; j++ {
		p := c.Index(i, j)
		x := c.Position[p]
		v := c.Velocity[p].Scale(decay)

		if obs != nil {
			for k, center := range obs.Centers {
				offset := x.Sub(center)
				dist := offset.Length()
				if dist > obs.Radius {
					continue
				}
				if dist == 0 {
					return fmt.Errorf("%w: point (%d,%d) at center of obstacle %d", ErrDegenerate, i, j, k)
				}
				normal := offset.Scale(1 / dist)
				v = v.Sub(normal.Scale(min(v.Dot(normal), 0)))
				v = v.Scale(in.params.Friction)
			}
		}

		c.Velocity[p] = v
		c.Position[p] = x.Add(v.Scale(dt))
	}
	return nil
}
