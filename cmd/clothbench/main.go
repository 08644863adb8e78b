// Command clothbench steps the cloth scene without a window and reports
// frame timings.
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cloth-sim/internal/cloth"
	"github.com/Faultbox/cloth-sim/internal/config"
	"github.com/Faultbox/cloth-sim/internal/logger"
	"github.com/Faultbox/cloth-sim/internal/sim"
)

var (
	flagFrames = flag.Int("frames", 300, "Number of frames to simulate")
	flagSave   = flag.String("save-config", "", "Write the effective config to this path and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded", zap.String("source", configSource(cfg)))

	if *flagSave != "" {
		if err := cfg.SaveTo(*flagSave); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", *flagSave))
		return
	}

	if err := run(cfg, *flagFrames); err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, frames int) error {
	if frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	durations := make([]time.Duration, 0, frames)
	start := time.Now()
	for f := 0; f < frames; f++ {
		fs, err := s.Frame()
		if err != nil {
			logger.Warn("frame failed", zap.Int("frame", f), zap.Error(err))
		}
		durations = append(durations, fs.Duration)
		logger.Debug("frame",
			zap.Int("frame", f),
			zap.Int("substeps", fs.Substeps),
			zap.Bool("reset", fs.Reset),
			zap.Float32("sim_time", fs.SimTime),
			zap.Duration("took", fs.Duration),
		)
	}
	wall := time.Since(start)

	if !finite(s.Cloth()) {
		return fmt.Errorf("cloth state is not finite after %d frames; lower time_step or spring_y", frames)
	}

	slices.Sort(durations)
	st := s.Stats()
	lo, hi := s.Cloth().Bounds()

	logger.Info("benchmark complete",
		zap.Uint64("seed", s.Seed()),
		zap.Float32("dt", s.TimeStep()),
		zap.Int("substeps_per_frame", s.SubstepsPerFrame()),
		zap.Int("frames", frames),
		zap.Uint64("substeps", st.Substeps),
		zap.Uint64("resets", st.Resets),
		zap.Uint64("failures", st.Failures),
		zap.Duration("wall", wall),
		zap.Duration("p50", percentile(durations, 0.50)),
		zap.Duration("p95", percentile(durations, 0.95)),
		zap.Duration("max", durations[len(durations)-1]),
		zap.Float64("substeps_per_sec", float64(st.Substeps)/wall.Seconds()),
		zap.Float64("kinetic_energy", s.Cloth().KineticEnergy()),
		zap.Float32("min_y", lo.Y),
		zap.Float32("max_y", hi.Y),
		zap.Float32("sim_time", s.Elapsed()),
	)
	return nil
}

// configSource names where the settings came from for the startup log.
func configSource(cfg *config.Config) string {
	if cfg.Source == "" {
		return "defaults"
	}
	return cfg.Source
}

// finite reports whether every position and velocity is a real number.
// Explicit Euler diverges to Inf/NaN when dt is too large for the stiffness.
func finite(c *cloth.Cloth) bool {
	for p := range c.Position {
		if !c.Position[p].IsFinite() || !c.Velocity[p].IsFinite() {
			return false
		}
	}
	return true
}

// percentile returns the p-quantile of sorted durations by nearest rank.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p*float64(len(sorted)-1) + 0.5)
	return sorted[idx]
}
