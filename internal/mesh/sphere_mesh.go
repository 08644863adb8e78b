package mesh

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/cloth-sim/internal/cloth"
	"github.com/Faultbox/cloth-sim/pkg/math"
)

// sphereDisplayScale shrinks the drawn sphere slightly so cloth resting on
// the collision radius does not visibly intersect it.
const sphereDisplayScale = 0.95

// SphereMesh is a UV sphere per obstacle, tiled into one vertex and one
// index buffer.
type SphereMesh struct {
	Count     int
	XSegments int // longitude divisions
	YSegments int // latitude divisions

	Vertices []float32 // Count*(XSegments+1)*(YSegments+1)*SphereStride
	Indices  []uint32  // Count*6*XSegments*YSegments

	// Unit directions of one sphere's vertices.
	dirs []math.Vec3
}

// NewSphereMesh builds the tiled index buffer and the unit sphere for count
// obstacles.
func NewSphereMesh(count, xSegments, ySegments int) (*SphereMesh, error) {
	if count < 0 || xSegments < 1 || ySegments < 1 {
		return nil, fmt.Errorf("%w: %d spheres of %dx%d segments", ErrSizeMismatch, count, xSegments, ySegments)
	}
	perSphere := (xSegments + 1) * (ySegments + 1)
	m := &SphereMesh{
		Count:     count,
		XSegments: xSegments,
		YSegments: ySegments,
		Vertices:  make([]float32, count*perSphere*SphereStride),
		Indices:   make([]uint32, count*6*xSegments*ySegments),
		dirs:      make([]math.Vec3, perSphere),
	}

	for i := 0; i <= xSegments; i++ {
		phi := 2 * gomath.Pi * float64(i) / float64(xSegments)
		for j := 0; j <= ySegments; j++ {
			theta := gomath.Pi * float64(j) / float64(ySegments)
			m.dirs[m.local(i, j)] = math.Vec3{
				X: float32(gomath.Sin(theta) * gomath.Cos(phi)),
				Y: float32(gomath.Cos(theta)),
				Z: float32(gomath.Sin(theta) * gomath.Sin(phi)),
			}
		}
	}

	for k := 0; k < count; k++ {
		base := uint32(k * perSphere)
		idx := m.Indices[k*6*xSegments*ySegments:]
		for i := 0; i < xSegments; i++ {
			for j := 0; j < ySegments; j++ {
				q := idx[6*(i*ySegments+j):]
				q[0] = base + m.local(i, j)
				q[1] = base + m.local(i+1, j)
				q[2] = base + m.local(i, j+1)
				q[3] = base + m.local(i+1, j+1)
				q[4] = base + m.local(i, j+1)
				q[5] = base + m.local(i+1, j)
			}
		}
	}

	return m, nil
}

func (m *SphereMesh) local(i, j int) uint32 {
	return uint32(i*(m.YSegments+1) + j)
}

// VerticesPerSphere returns the vertex count of one sphere.
func (m *SphereMesh) VerticesPerSphere() int {
	return len(m.dirs)
}

// VertexCount returns the total vertex count.
func (m *SphereMesh) VertexCount() int {
	return m.Count * len(m.dirs)
}

// Update places every sphere at its obstacle center with 0.95 times the
// collision radius. Normals are the unit radial directions.
func (m *SphereMesh) Update(o *cloth.Obstacles) error {
	if o == nil || o.Count() != m.Count {
		return fmt.Errorf("%w: mesh has %d spheres", ErrSizeMismatch, m.Count)
	}

	radius := sphereDisplayScale * o.Radius
	for k, center := range o.Centers {
		out := m.Vertices[k*len(m.dirs)*SphereStride:]
		for n, dir := range m.dirs {
			v := out[n*SphereStride:]
			center.Add(dir.Scale(radius)).Put(v)
			dir.Put(v[3:])
		}
	}
	return nil
}
