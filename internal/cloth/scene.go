package cloth

import "math/rand/v2"

// Rand is the random source consumed by the scene layout. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// Float32 returns a uniform value in [0, 1).
	Float32() float32
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SceneInitializer reseeds a cloth and its obstacles from one caller-owned
// random source.
type SceneInitializer struct {
	rng Rand
}

// NewSceneInitializer wraps rng.
func NewSceneInitializer(rng Rand) *SceneInitializer {
	return &SceneInitializer{rng: rng}
}

// Reset lays out the cloth first and then the obstacles. Either may be nil.
func (s *SceneInitializer) Reset(c *Cloth, o *Obstacles) {
	if c != nil {
		c.Initialize(s.rng)
	}
	if o != nil {
		o.Initialize(s.rng)
	}
}
