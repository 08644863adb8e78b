package mesh

import (
	"fmt"

	"github.com/Faultbox/cloth-sim/internal/cloth"
	"github.com/Faultbox/cloth-sim/internal/parallel"
	"github.com/Faultbox/cloth-sim/pkg/math"
)

// ClothMesh is the triangulated surface of a Rows x Cols cloth. Indices and
// colors are fixed at construction; Update refreshes positions and normals
// in place.
type ClothMesh struct {
	Rows int
	Cols int

	Vertices []float32 // Rows*Cols*ClothStride
	Indices  []uint32  // 6*(Rows-1)*(Cols-1)

	// Per-quad face normals of the two triangles.
	bottomLeft []math.Vec3
	upRight    []math.Vec3

	workers int
}

// NewClothMesh builds the index buffer and vertex colors for a rows x cols
// grid.
func NewClothMesh(rows, cols, workers int) (*ClothMesh, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: cloth mesh %dx%d", ErrSizeMismatch, rows, cols)
	}
	quads := (rows - 1) * (cols - 1)
	m := &ClothMesh{
		Rows:       rows,
		Cols:       cols,
		Vertices:   make([]float32, rows*cols*ClothStride),
		Indices:    make([]uint32, 6*quads),
		bottomLeft: make([]math.Vec3, quads),
		upRight:    make([]math.Vec3, quads),
		workers:    parallel.Workers(workers),
	}

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			idx := m.Indices[6*m.quad(i, j):]
			// Bottom-left triangle
			idx[0] = m.vertex(i, j)
			idx[1] = m.vertex(i+1, j)
			idx[2] = m.vertex(i, j+1)
			// Upper-right triangle
			idx[3] = m.vertex(i+1, j+1)
			idx[4] = m.vertex(i, j+1)
			idx[5] = m.vertex(i+1, j)
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			color := ColorOrange
			if (i/4+j/4)%2 == 0 {
				color = ColorBlue
			}
			color.Put(m.Vertices[int(m.vertex(i, j))*ClothStride+clothColorOffset:])
		}
	}

	return m, nil
}

func (m *ClothMesh) vertex(i, j int) uint32 {
	return uint32(i*m.Cols + j)
}

func (m *ClothMesh) quad(i, j int) int {
	return i*(m.Cols-1) + j
}

// VertexCount returns the number of vertices.
func (m *ClothMesh) VertexCount() int {
	return m.Rows * m.Cols
}

// Update writes the cloth's current positions and smoothed normals into the
// vertex buffer. Interior vertices get the unnormalized sum of their six
// adjacent face normals; vertices on the grid border get a zero normal.
func (m *ClothMesh) Update(c *cloth.Cloth) error {
	if c == nil || c.Rows != m.Rows || c.Cols != m.Cols {
		return fmt.Errorf("%w: mesh is %dx%d", ErrSizeMismatch, m.Rows, m.Cols)
	}

	if err := parallel.Rows(m.Rows-1, m.workers, func(i int) error {
		m.updateFaceRow(c, i)
		return nil
	}); err != nil {
		return err
	}

	return parallel.Rows(m.Rows, m.workers, func(i int) error {
		m.updateVertexRow(c, i)
		return nil
	})
}

func (m *ClothMesh) updateFaceRow(c *cloth.Cloth, i int) {
	for j := 0; j < m.Cols-1; j++ {
		p00 := c.At(i, j)
		p10 := c.At(i+1, j)
		p01 := c.At(i, j+1)
		p11 := c.At(i+1, j+1)

		q := m.quad(i, j)
		m.bottomLeft[q] = triangleNormal(p00, p10, p01)
		m.upRight[q] = triangleNormal(p11, p10, p01)
	}
}

func (m *ClothMesh) updateVertexRow(c *cloth.Cloth, i int) {
	for j := 0; j < m.Cols; j++ {
		v := m.Vertices[int(m.vertex(i, j))*ClothStride:]
		c.At(i, j).Put(v[clothPosOffset:])

		var normal math.Vec3
		if i > 0 && i < m.Rows-1 && j > 0 && j < m.Cols-1 {
			normal = m.bottomLeft[m.quad(i, j)].
				Add(m.bottomLeft[m.quad(i-1, j)]).
				Add(m.bottomLeft[m.quad(i, j-1)]).
				Add(m.upRight[m.quad(i-1, j)]).
				Add(m.upRight[m.quad(i, j-1)]).
				Add(m.upRight[m.quad(i-1, j-1)])
		}
		normal.Put(v[clothNormalOffset:])
	}
}

// Position returns the position stored for vertex (i, j).
func (m *ClothMesh) Position(i, j int) math.Vec3 {
	return m.read(i, j, clothPosOffset)
}

// Color returns the color stored for vertex (i, j).
func (m *ClothMesh) Color(i, j int) math.Vec3 {
	return m.read(i, j, clothColorOffset)
}

// Normal returns the normal stored for vertex (i, j).
func (m *ClothMesh) Normal(i, j int) math.Vec3 {
	return m.read(i, j, clothNormalOffset)
}

func (m *ClothMesh) read(i, j, offset int) math.Vec3 {
	v := m.Vertices[int(m.vertex(i, j))*ClothStride+offset:]
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
