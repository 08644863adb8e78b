package lighting

import (
	"testing"

	"github.com/Faultbox/cloth-sim/pkg/math"
)

func TestDefault(t *testing.T) {
	l := Default()
	if l.Position != (math.Vec3{X: 0, Y: 1, Z: 2}) {
		t.Errorf("unexpected light position %v", l.Position)
	}
	if l.Color != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("unexpected light color %v", l.Color)
	}
}

func TestClamped(t *testing.T) {
	l := PointLight{
		Color:     math.Vec3{X: 2, Y: -1, Z: 0.5},
		Ambient:   -0.2,
		Specular:  -1,
		Shininess: 0,
	}.Clamped()

	if l.Color != (math.Vec3{X: 1, Y: 0, Z: 0.5}) {
		t.Errorf("color not clamped: %v", l.Color)
	}
	if l.Ambient != 0 || l.Specular != 0 {
		t.Errorf("terms not clamped: ambient %v specular %v", l.Ambient, l.Specular)
	}
	if l.Shininess != 1 {
		t.Errorf("expected shininess 1, got %v", l.Shininess)
	}
}

