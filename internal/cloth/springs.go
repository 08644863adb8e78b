package cloth

import "github.com/Faultbox/cloth-sim/pkg/math"

// SpringKind classifies a neighbor offset.
type SpringKind int

const (
	// Structural springs join axis-adjacent points (offset length 1).
	Structural SpringKind = iota
	// Shear springs join diagonal points (offset length sqrt 2).
	Shear
	// Bend springs join points two apart along an axis (offset length 2).
	Bend
)

// String returns the kind name.
func (k SpringKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Shear:
		return "shear"
	case Bend:
		return "bend"
	default:
		return "unknown"
	}
}

// Spring is one entry of the neighbor table.
type Spring struct {
	DI, DJ int
	Kind   SpringKind

	// RestFactor is the offset's Euclidean length; the rest distance is
	// RestFactor * QuadSize.
	RestFactor float32
}

var springs = buildSprings([][2]int{
	{-2, 0}, {-1, -1}, {-1, 0}, {-1, 1},
	{0, -2}, {0, -1}, {0, 1}, {0, 2},
	{1, -1}, {1, 0}, {1, 1}, {2, 0},
})

func buildSprings(offsets [][2]int) []Spring {
	out := make([]Spring, len(offsets))
	for n, o := range offsets {
		di, dj := o[0], o[1]
		kind := Structural
		switch {
		case di != 0 && dj != 0:
			kind = Shear
		case di*di+dj*dj == 4:
			kind = Bend
		}
		out[n] = Spring{
			DI:         di,
			DJ:         dj,
			Kind:       kind,
			RestFactor: math.Vec2{X: float32(di), Y: float32(dj)}.Length(),
		}
	}
	return out
}

// Link is an in-range neighbor of a grid point.
type Link struct {
	I, J   int // neighbor coordinates
	Index  int // flat index of (I, J)
	Spring Spring
}

// MaxLinks is the most links any point can have.
const MaxLinks = 12

// AppendLinks appends the in-range neighbors of point (i, j) to dst in table
// order and returns the extended slice. Out-of-range offsets are skipped;
// the grid does not wrap.
func (c *Cloth) AppendLinks(dst []Link, i, j int) []Link {
	for _, s := range springs {
		ni, nj := i+s.DI, j+s.DJ
		if c.InBounds(ni, nj) {
			dst = append(dst, Link{I: ni, J: nj, Index: c.Index(ni, nj), Spring: s})
		}
	}
	return dst
}
