// Package sim drives the cloth scene frame by frame: periodic reseeding,
// a fixed number of integrator substeps per frame and the mesh refresh that
// follows them.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cloth-sim/internal/cloth"
	"github.com/Faultbox/cloth-sim/internal/config"
	"github.com/Faultbox/cloth-sim/internal/logger"
	"github.com/Faultbox/cloth-sim/internal/mesh"
	"github.com/Faultbox/cloth-sim/pkg/math"
)

// FrameStats describes one call to Frame.
type FrameStats struct {
	Substeps int           // substeps completed
	Reset    bool          // scene was reseeded before stepping
	SimTime  float32       // simulated seconds since the last reset
	Duration time.Duration // wall time spent in Frame
}

// Stats holds counters since New.
type Stats struct {
	Frames    uint64
	Substeps  uint64
	Resets    uint64
	Failures  uint64
	LastFrame time.Duration
}

// Simulation owns the cloth, its obstacles and the meshes built from them.
// It is not safe for concurrent use.
type Simulation struct {
	dt         float32
	substeps   int
	resetAfter float32
	seed       uint64

	cloth      *cloth.Cloth
	obstacles  *cloth.Obstacles
	scene      *cloth.SceneInitializer
	integrator *cloth.Integrator
	clothMesh  *mesh.ClothMesh
	sphereMesh *mesh.SphereMesh

	elapsed    float32
	generation uint64
	stats      Stats

	log *zap.Logger
}

// New builds every component from cfg, seeds the scene and fills both
// meshes.
func New(cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc, oc := cfg.Simulation, cfg.Obstacles

	c, err := cloth.New(sc.GridRows, sc.GridCols, sc.ResolvedQuadSize())
	if err != nil {
		return nil, fmt.Errorf("creating cloth: %w", err)
	}
	obs, err := cloth.NewObstacles(oc.Count, oc.Radius)
	if err != nil {
		return nil, fmt.Errorf("creating obstacles: %w", err)
	}
	clothMesh, err := mesh.NewClothMesh(sc.GridRows, sc.GridCols, sc.Workers)
	if err != nil {
		return nil, fmt.Errorf("creating cloth mesh: %w", err)
	}
	sphereMesh, err := mesh.NewSphereMesh(oc.Count, oc.XSegments, oc.YSegments)
	if err != nil {
		return nil, fmt.Errorf("creating sphere mesh: %w", err)
	}

	seed := sc.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Simulation{
		dt:         sc.TimeStep,
		substeps:   sc.ResolvedSubsteps(),
		resetAfter: float32(sc.ResetInterval.Seconds()),
		seed:       seed,
		cloth:      c,
		obstacles:  obs,
		scene:      cloth.NewSceneInitializer(cloth.NewRand(seed)),
		integrator: cloth.NewIntegrator(paramsFrom(cfg.Physics), sc.Workers),
		clothMesh:  clothMesh,
		sphereMesh: sphereMesh,
		log:        logger.Named("sim"),
	}

	if err := s.reseed(); err != nil {
		return nil, err
	}

	s.log.Info("simulation ready",
		zap.Int("rows", c.Rows),
		zap.Int("cols", c.Cols),
		zap.Int("points", c.Len()),
		zap.Float32("quad_size", c.QuadSize),
		zap.Float32("dt", s.dt),
		zap.Int("substeps", s.substeps),
		zap.Int("obstacles", obs.Count()),
		zap.Int("sphere_vertices", obs.Count()*sphereMesh.VerticesPerSphere()),
		zap.Uint64("seed", seed),
	)
	return s, nil
}

func paramsFrom(p config.PhysicsConfig) cloth.Params {
	return cloth.Params{
		Gravity:        math.Vec3{X: p.Gravity[0], Y: p.Gravity[1], Z: p.Gravity[2]},
		SpringY:        p.SpringY,
		DashpotDamping: p.DashpotDamping,
		DragDamping:    p.DragDamping,
		Friction:       p.Friction,
	}
}

// Frame reseeds the scene if the reset interval has passed, runs the
// configured substeps and rebuilds the cloth mesh.
//
// If a substep fails the scene is reseeded, so the meshes stay renderable,
// and the error is returned.
func (s *Simulation) Frame() (FrameStats, error) {
	start := time.Now()
	var fs FrameStats

	if s.elapsed > s.resetAfter {
		if err := s.reseed(); err != nil {
			return fs, err
		}
		fs.Reset = true
		s.log.Debug("scene reset", zap.Uint64("generation", s.generation))
	}

	for k := 0; k < s.substeps; k++ {
		if err := s.integrator.Substep(s.cloth, s.obstacles, s.dt); err != nil {
			s.stats.Failures++
			s.log.Error("substep failed, reseeding",
				zap.Uint64("frame", s.stats.Frames),
				zap.Int("substep", k),
				zap.Error(err),
			)
			if rerr := s.reseed(); rerr != nil {
				return fs, fmt.Errorf("reseeding after failed substep: %w", rerr)
			}
			fs.Reset = true
			fs.Duration = time.Since(start)
			return fs, fmt.Errorf("frame %d substep %d: %w", s.stats.Frames, k, err)
		}
		s.elapsed += s.dt
		fs.Substeps++
	}

	if err := s.clothMesh.Update(s.cloth); err != nil {
		return fs, fmt.Errorf("updating cloth mesh: %w", err)
	}

	fs.SimTime = s.elapsed
	fs.Duration = time.Since(start)

	s.stats.Frames++
	s.stats.Substeps += uint64(fs.Substeps)
	s.stats.LastFrame = fs.Duration
	return fs, nil
}

// Reset reseeds the scene immediately.
func (s *Simulation) Reset() error {
	return s.reseed()
}

// reseed lays out a fresh scene and rebuilds both meshes.
func (s *Simulation) reseed() error {
	s.scene.Reset(s.cloth, s.obstacles)
	if err := s.sphereMesh.Update(s.obstacles); err != nil {
		return fmt.Errorf("updating sphere mesh: %w", err)
	}
	if err := s.clothMesh.Update(s.cloth); err != nil {
		return fmt.Errorf("updating cloth mesh: %w", err)
	}
	s.elapsed = 0
	s.generation++
	s.stats.Resets++
	return nil
}

// Stats returns the counters accumulated so far.
func (s *Simulation) Stats() Stats { return s.stats }

// Generation increases every time the scene is reseeded. Renderers compare
// it to decide when the sphere mesh needs uploading again.
func (s *Simulation) Generation() uint64 { return s.generation }

// Seed returns the seed the scene source was created with.
func (s *Simulation) Seed() uint64 { return s.seed }

// Elapsed returns simulated seconds since the last reset.
func (s *Simulation) Elapsed() float32 { return s.elapsed }

// TimeStep returns the substep length in seconds.
func (s *Simulation) TimeStep() float32 { return s.dt }

// SubstepsPerFrame returns how many substeps Frame runs.
func (s *Simulation) SubstepsPerFrame() int { return s.substeps }

func (s *Simulation) Cloth() *cloth.Cloth { return s.cloth }
func (s *Simulation) Obstacles() *cloth.Obstacles { return s.obstacles }
func (s *Simulation) ClothMesh() *mesh.ClothMesh { return s.clothMesh }
func (s *Simulation) SphereMesh() *mesh.SphereMesh { return s.sphereMesh }
