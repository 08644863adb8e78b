// Package lighting describes the light the scene is shaded with.
package lighting

import "github.com/Faultbox/cloth-sim/pkg/math"

// PointLight is a single Phong point light.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3 // RGB, 0-1
	Ambient   float32   // fraction of Color applied everywhere
	Specular  float32   // highlight strength
	Shininess float32   // highlight exponent
}

// Default returns the white light above and in front of the scene.
func Default() PointLight {
	return PointLight{
		Position:  math.Vec3{X: 0, Y: 1, Z: 2},
		Color:     math.Vec3{X: 1, Y: 1, Z: 1},
		Ambient:   0.15,
		Specular:  0.5,
		Shininess: 32,
	}
}

// Clamped returns a copy with the color in [0, 1] and the other terms
// non-negative. A zero shininess becomes 1.
func (l PointLight) Clamped() PointLight {
	c := func(v float32) float32 { return max(0, min(v, 1)) }
	l.Color = math.Vec3{X: c(l.Color.X), Y: c(l.Color.Y), Z: c(l.Color.Z)}
	l.Ambient = max(l.Ambient, 0)
	l.Specular = max(l.Specular, 0)
	if l.Shininess <= 0 {
		l.Shininess = 1
	}
	return l
}

