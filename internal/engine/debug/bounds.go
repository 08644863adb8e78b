// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/cloth-sim/pkg/math"

// BoxLineVertices is the vertex count written by BoxLines.
const BoxLineVertices = 24

// BoxLines writes the 12 edges of the axis-aligned box [lo, hi] into dst as
// line-list positions (x, y, z per vertex) and returns the extended slice.
func BoxLines(dst []float32, lo, hi math.Vec3) []float32 {
	corner := func(mask int) math.Vec3 {
		c := lo
		if mask&1 != 0 {
			c.X = hi.X
		}
		if mask&2 != 0 {
			c.Y = hi.Y
		}
		if mask&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}

	// Each edge joins two corners that differ in exactly one axis bit
	for mask := 0; mask < 8; mask++ {
		for _, axis := range [3]int{1, 2, 4} {
			if mask&axis != 0 {
				continue
			}
			a, b := corner(mask), corner(mask|axis)
			dst = append(dst, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return dst
}
