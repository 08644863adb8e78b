// Package config handles simulation and viewer configuration loading and
// management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Camera     CameraConfig     `yaml:"camera"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Source is the file the settings were read from, empty when running
	// on defaults and flags alone.
	Source string `yaml:"-"`
}

// SimulationConfig holds grid and time stepping settings.
type SimulationConfig struct {
	GridRows      int           `yaml:"grid_rows"`
	GridCols      int           `yaml:"grid_cols"`
	QuadSize      float32       `yaml:"quad_size"` // 0 = 1/max(rows, cols)
	TimeStep      float32       `yaml:"time_step"` // seconds per substep
	Substeps      int           `yaml:"substeps"`  // per frame, 0 = one 60 Hz frame worth
	ResetInterval time.Duration `yaml:"reset_interval"`
	Seed          uint64        `yaml:"seed"`    // 0 = seed from the clock
	Workers       int           `yaml:"workers"` // 0 = one per CPU
}

// PhysicsConfig holds the integrator constants.
type PhysicsConfig struct {
	Gravity        [3]float32 `yaml:"gravity"`
	SpringY        float32    `yaml:"spring_y"`
	DashpotDamping float32    `yaml:"dashpot_damping"`
	DragDamping    float32    `yaml:"drag_damping"`
	Friction       float32    `yaml:"friction"`
}

// ObstacleConfig holds the sphere set and its mesh resolution.
type ObstacleConfig struct {
	Count     int     `yaml:"count"`
	Radius    float32 `yaml:"radius"`
	XSegments int     `yaml:"x_segments"`
	YSegments int     `yaml:"y_segments"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds the initial view.
type CameraConfig struct {
	Distance float32 `yaml:"distance"`
	FOV      float32 `yaml:"fov"` // vertical, degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the reference configuration: a 128x128 sheet dropped on
// five spheres and reset every 1.5 simulated seconds.
func Default() *Config {
	const n = 128
	return &Config{
		Simulation: SimulationConfig{
			GridRows:      n,
			GridCols:      n,
			QuadSize:      0,
			TimeStep:      4e-2 / n,
			Substeps:      0,
			ResetInterval: 1500 * time.Millisecond,
			Seed:          0,
			Workers:       0,
		},
		Physics: PhysicsConfig{
			Gravity:        [3]float32{0, -9.8, 0},
			SpringY:        1e4,
			DashpotDamping: 1e4,
			DragDamping:    1,
			Friction:       0.99,
		},
		Obstacles: ObstacleConfig{
			Count:     5,
			Radius:    0.6 / 5,
			XSegments: 100,
			YSegments: 100,
		},
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     1024,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			Distance: 3,
			FOV:      45,
			Near:     0.1,
			Far:      100,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ResolvedQuadSize returns the configured quad size, or 1/max(rows, cols)
// so the sheet spans one unit.
func (s SimulationConfig) ResolvedQuadSize() float32 {
	if s.QuadSize > 0 {
		return s.QuadSize
	}
	return 1 / float32(max(s.GridRows, s.GridCols, 1))
}

// ResolvedSubsteps returns the configured substep count, or as many whole
// substeps as fit in a 1/60 s frame (at least one).
func (s SimulationConfig) ResolvedSubsteps() int {
	if s.Substeps > 0 {
		return s.Substeps
	}
	if s.TimeStep <= 0 {
		return 1
	}
	return max(int(1.0/60/float64(s.TimeStep)), 1)
}

// Validate checks every numeric precondition of the simulation.
func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.GridRows < 1 || s.GridCols < 1:
		return fmt.Errorf("%w: grid %dx%d must be at least 1x1", ErrInvalid, s.GridRows, s.GridCols)
	case s.QuadSize < 0:
		return fmt.Errorf("%w: quad_size %v is negative", ErrInvalid, s.QuadSize)
	case !(s.TimeStep > 0) || math.IsInf(float64(s.TimeStep), 1):
		return fmt.Errorf("%w: time_step %v must be positive and finite", ErrInvalid, s.TimeStep)
	case s.Substeps < 0:
		return fmt.Errorf("%w: substeps %d is negative", ErrInvalid, s.Substeps)
	case s.ResetInterval <= 0:
		return fmt.Errorf("%w: reset_interval %v must be positive", ErrInvalid, s.ResetInterval)
	}

	o := c.Obstacles
	switch {
	case o.Count < 0:
		return fmt.Errorf("%w: obstacle count %d is negative", ErrInvalid, o.Count)
	case !(o.Radius > 0):
		return fmt.Errorf("%w: obstacle radius %v must be positive", ErrInvalid, o.Radius)
	case o.XSegments < 1 || o.YSegments < 1:
		return fmt.Errorf("%w: sphere segments %dx%d must be at least 1x1", ErrInvalid, o.XSegments, o.YSegments)
	}

	if c.Physics.SpringY < 0 || c.Physics.DashpotDamping < 0 || c.Physics.DragDamping < 0 {
		return fmt.Errorf("%w: physics constants must not be negative", ErrInvalid)
	}
	if f := c.Physics.Friction; !(f >= 0 && f <= 1) {
		return fmt.Errorf("%w: friction %v must be within [0, 1]", ErrInvalid, f)
	}
	return nil
}
