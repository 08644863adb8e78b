package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Simulation defaults
	if cfg.Simulation.GridRows != 128 || cfg.Simulation.GridCols != 128 {
		t.Errorf("expected 128x128 grid, got %dx%d", cfg.Simulation.GridRows, cfg.Simulation.GridCols)
	}
	if cfg.Simulation.TimeStep != 4e-2/128 {
		t.Errorf("expected time step 4e-2/128, got %v", cfg.Simulation.TimeStep)
	}
	if cfg.Simulation.ResetInterval != 1500*time.Millisecond {
		t.Errorf("expected reset interval 1.5s, got %v", cfg.Simulation.ResetInterval)
	}

	// Obstacle defaults
	if cfg.Obstacles.Count != 5 {
		t.Errorf("expected 5 obstacles, got %d", cfg.Obstacles.Count)
	}
	if cfg.Obstacles.Radius != float32(0.6/5) {
		t.Errorf("expected radius 0.12, got %v", cfg.Obstacles.Radius)
	}
	if cfg.Obstacles.XSegments != 100 || cfg.Obstacles.YSegments != 100 {
		t.Errorf("expected 100x100 sphere segments, got %dx%d", cfg.Obstacles.XSegments, cfg.Obstacles.YSegments)
	}

	// Physics defaults
	if cfg.Physics.Gravity != [3]float32{0, -9.8, 0} {
		t.Errorf("unexpected gravity %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.Friction != 0.99 {
		t.Errorf("expected friction 0.99, got %v", cfg.Physics.Friction)
	}

	// Graphics defaults
	if cfg.Graphics.Width != 1024 || cfg.Graphics.Height != 1024 {
		t.Errorf("expected 1024x1024 window, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Camera defaults
	if cfg.Camera.Distance != 3 || cfg.Camera.FOV != 45 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestResolvedQuadSize(t *testing.T) {
	s := Default().Simulation
	if got := s.ResolvedQuadSize(); got != 1.0/128 {
		t.Errorf("expected 1/128, got %v", got)
	}

	s.GridRows, s.GridCols = 16, 32
	if got := s.ResolvedQuadSize(); got != 1.0/32 {
		t.Errorf("expected 1/32 for 16x32, got %v", got)
	}

	s.QuadSize = 0.25
	if got := s.ResolvedQuadSize(); got != 0.25 {
		t.Errorf("expected explicit 0.25, got %v", got)
	}
}

func TestResolvedSubsteps(t *testing.T) {
	s := Default().Simulation
	if got := s.ResolvedSubsteps(); got != 53 {
		t.Errorf("expected 53 substeps for dt=0.04/128, got %d", got)
	}

	s.TimeStep = 1
	if got := s.ResolvedSubsteps(); got != 1 {
		t.Errorf("expected at least one substep, got %d", got)
	}

	s.Substeps = 7
	if got := s.ResolvedSubsteps(); got != 7 {
		t.Errorf("expected explicit 7, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rows", func(c *Config) { c.Simulation.GridRows = 0 }},
		{"zero cols", func(c *Config) { c.Simulation.GridCols = 0 }},
		{"negative quad size", func(c *Config) { c.Simulation.QuadSize = -1 }},
		{"zero time step", func(c *Config) { c.Simulation.TimeStep = 0 }},
		{"infinite time step", func(c *Config) { c.Simulation.TimeStep = float32(math.Inf(1)) }},
		{"NaN time step", func(c *Config) { c.Simulation.TimeStep = float32(math.NaN()) }},
		{"negative substeps", func(c *Config) { c.Simulation.Substeps = -1 }},
		{"zero reset interval", func(c *Config) { c.Simulation.ResetInterval = 0 }},
		{"negative obstacle count", func(c *Config) { c.Obstacles.Count = -1 }},
		{"zero radius", func(c *Config) { c.Obstacles.Radius = 0 }},
		{"zero segments", func(c *Config) { c.Obstacles.XSegments = 0 }},
		{"negative stiffness", func(c *Config) { c.Physics.SpringY = -1 }},
		{"friction above one", func(c *Config) { c.Physics.Friction = 1.5 }},
		{"negative friction", func(c *Config) { c.Physics.Friction = -0.1 }},
		{"NaN friction", func(c *Config) { c.Physics.Friction = float32(math.NaN()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	t.Run("no obstacles", func(t *testing.T) {
		cfg := Default()
		cfg.Obstacles.Count = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("empty obstacle set should validate: %v", err)
		}
	})

	for _, f := range []float32{0, 1} {
		cfg := Default()
		cfg.Physics.Friction = f
		if err := cfg.Validate(); err != nil {
			t.Errorf("friction %v should validate: %v", f, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  grid_rows: 64
  grid_cols: 32
  time_step: 0.0005
  reset_interval: 3s
  seed: 42
  workers: 2

physics:
  gravity: [0, -1.6, 0]
  friction: 0.5

obstacles:
  count: 2
  radius: 0.2

graphics:
  width: 800
  height: 600
  vsync: false

logging:
  level: "debug"
  log_file: "sim.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Simulation.GridRows != 64 || cfg.Simulation.GridCols != 32 {
		t.Errorf("expected 64x32 grid, got %dx%d", cfg.Simulation.GridRows, cfg.Simulation.GridCols)
	}
	if cfg.Simulation.TimeStep != 0.0005 {
		t.Errorf("expected time step 0.0005, got %v", cfg.Simulation.TimeStep)
	}
	if cfg.Simulation.ResetInterval != 3*time.Second {
		t.Errorf("expected reset interval 3s, got %v", cfg.Simulation.ResetInterval)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
	if cfg.Physics.Gravity != [3]float32{0, -1.6, 0} {
		t.Errorf("unexpected gravity %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.Friction != 0.5 {
		t.Errorf("expected friction 0.5, got %v", cfg.Physics.Friction)
	}
	// Untouched keys keep their defaults
	if cfg.Physics.SpringY != 1e4 {
		t.Errorf("expected default spring_y, got %v", cfg.Physics.SpringY)
	}
	if cfg.Obstacles.Count != 2 || cfg.Obstacles.Radius != 0.2 {
		t.Errorf("unexpected obstacles %+v", cfg.Obstacles)
	}
	if cfg.Obstacles.XSegments != 100 {
		t.Errorf("expected default x segments, got %d", cfg.Obstacles.XSegments)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
simulation:
  grid_rows: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "clothsim.yaml")
	if err := os.WriteFile(configPath, []byte("simulation:\n  grid_rows: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find clothsim.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "grid flag",
			setup: func() { *flagGrid = 32 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.GridRows != 32 || cfg.Simulation.GridCols != 32 {
					t.Errorf("expected 32x32 grid, got %dx%d", cfg.Simulation.GridRows, cfg.Simulation.GridCols)
				}
			},
			teardown: func() { *flagGrid = 0 },
		},
		{
			name:  "seed and workers flags",
			setup: func() { *flagSeed = 7; *flagWorkers = 3 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Simulation.Seed)
				}
				if cfg.Simulation.Workers != 3 {
					t.Errorf("expected 3 workers, got %d", cfg.Simulation.Workers)
				}
			},
			teardown: func() { *flagSeed = 0; *flagWorkers = 0 },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  grid_rows: 48
  grid_cols: 48
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width comes from the flag, height from the file
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Simulation.GridRows != 48 {
		t.Errorf("expected grid 48 from file, got %d", cfg.Simulation.GridRows)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("obstacles:\n  radius: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Simulation.Seed = 99
	cfg.Simulation.ResetInterval = 2 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Simulation.Seed != 99 {
		t.Errorf("expected seed 99 after reload, got %d", loaded.Simulation.Seed)
	}
	if loaded.Simulation.ResetInterval != 2*time.Second {
		t.Errorf("expected 2s after reload, got %v", loaded.Simulation.ResetInterval)
	}
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"known keys", "physics:\n  spring_y: 2000\n", false},
		{"misspelled key", "physics:\n  spring_k: 2000\n", true},
		{"unknown section", "wind:\n  speed: 3\n", true},
		{"empty file", "", false},
		{"comments only", "# nothing set\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := Default()
			err := loadFromFile(cfg, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.name != "known keys" && cfg.Physics.SpringY != Default().Physics.SpringY {
				t.Errorf("spring_y changed to %v", cfg.Physics.SpringY)
			}
		})
	}
}

func TestLoadRecordsSource(t *testing.T) {
	// Keep the user's real config directory out of the lookup.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	flagPath := filepath.Join(dir, "flag.yaml")
	for path, rows := range map[string]string{envPath: "24", flagPath: "48"} {
		if err := os.WriteFile(path, []byte("simulation:\n  grid_rows: "+rows+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		flag     string
		env      string
		wantSrc  string
		wantRows int
		wantErr  bool
	}{
		{"defaults", "", "", "", 128, false},
		{"environment", "", envPath, envPath, 24, false},
		{"flag over environment", flagPath, envPath, flagPath, 48, false},
		{"missing file", filepath.Join(dir, "absent.yaml"), "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfig, tt.env)
			old := *flagConfig
			*flagConfig = tt.flag
			defer func() { *flagConfig = old }()

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if cfg.Source != tt.wantSrc {
				t.Errorf("Source = %q, want %q", cfg.Source, tt.wantSrc)
			}
			if cfg.Simulation.GridRows != tt.wantRows {
				t.Errorf("grid rows = %d, want %d", cfg.Simulation.GridRows, tt.wantRows)
			}
		})
	}
}
