// Package app implements the interactive viewer loop.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/cloth-sim/internal/config"
	"github.com/Faultbox/cloth-sim/internal/engine/camera"
	"github.com/Faultbox/cloth-sim/internal/engine/debug"
	"github.com/Faultbox/cloth-sim/internal/engine/input"
	"github.com/Faultbox/cloth-sim/internal/engine/lighting"
	"github.com/Faultbox/cloth-sim/internal/engine/renderer"
	"github.com/Faultbox/cloth-sim/internal/engine/window"
	"github.com/Faultbox/cloth-sim/internal/logger"
	"github.com/Faultbox/cloth-sim/internal/sim"
)

const title = "Cloth simulation"

// App owns the window, the simulation and everything drawn from it.
type App struct {
	running    bool
	paused     bool
	showBounds bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	sim      *sim.Simulation
	shots    *debug.ScreenshotCapture

	uploadedGeneration uint64

	log *zap.Logger
}

// New creates the simulation, then the window and renderer.
func New(cfg *config.Config) (*App, error) {
	a := &App{log: logger.Named("app")}

	var err error
	a.sim, err = sim.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	// Window first, since the renderer needs its OpenGL context
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbw, fbh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  fbw,
		Height: fbh,
		Light:  lighting.Default(),
	}, a.sim.ClothMesh(), a.sim.SphereMesh())
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.uploadedGeneration = a.sim.Generation()

	c := cfg.Camera
	a.camera = camera.NewOrbitCamera(c.Distance, c.FOV, c.Near, c.Far)
	a.input = input.New()
	a.shots = debug.NewScreenshotCapture("screenshots", "clothsim")

	a.log.Info("viewer initialized")
	return a, nil
}

// Run drives input, simulation and rendering until the window closes.
func (a *App) Run() {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()
	var simTime time.Duration

	a.log.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleInput()

		if !a.paused {
			fs, err := a.sim.Frame()
			if err != nil {
				a.log.Warn("frame failed, scene reseeded", zap.Error(err))
			}
			simTime += fs.Duration
		}

		a.render()
		a.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second/2 {
			fps := float64(frameCount) / elapsed.Seconds()
			a.window.SetTitle(windowTitle(fps, a.paused))
			a.log.Debug("fps",
				zap.Float64("fps", fps),
				zap.Duration("sim_per_frame", simTime/time.Duration(frameCount)),
			)
			frameCount = 0
			simTime = 0
			fpsTimer = time.Now()
		}
	}

	st := a.sim.Stats()
	a.log.Info("main loop finished",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("resets", st.Resets),
		zap.Uint64("failures", st.Failures),
	)
}

func windowTitle(fps float64, paused bool) string {
	if paused {
		return fmt.Sprintf("%s %.0f FPS (paused)", title, fps)
	}
	return fmt.Sprintf("%s %.0f FPS", title, fps)
}

func (a *App) handleInput() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(a.window.DrawableSize())
		case input.EventKeyDown:
			a.handleKey(event.Key)
		}
	}

	if dx, dy := a.input.DragDelta(); dx != 0 || dy != 0 {
		a.camera.HandleDrag(dx, dy)
	}
	if w := a.input.WheelDelta(); w != 0 {
		a.camera.HandleZoom(w)
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_SPACE:
		a.paused = !a.paused
		a.log.Info("pause toggled", zap.Bool("paused", a.paused))
	case sdl.SCANCODE_R:
		if err := a.sim.Reset(); err != nil {
			a.log.Error("reset failed", zap.Error(err))
		}
	case sdl.SCANCODE_C:
		a.camera.Reset()
	case sdl.SCANCODE_B:
		a.showBounds = !a.showBounds
	case sdl.SCANCODE_F12:
		a.screenshot()
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// render uploads changed meshes and draws the frame.
func (a *App) render() {
	if g := a.sim.Generation(); g != a.uploadedGeneration {
		a.renderer.UploadSpheres(a.sim.SphereMesh())
		a.uploadedGeneration = g
	}
	a.renderer.UploadCloth(a.sim.ClothMesh())

	v := renderer.View{
		View:       a.camera.ViewMatrix(),
		Projection: a.camera.ProjectionMatrix(a.renderer.Aspect()),
		Eye:        a.camera.Position(),
	}

	a.renderer.Begin()
	a.renderer.DrawScene(v)
	if a.showBounds {
		lo, hi := a.sim.Cloth().Bounds()
		a.renderer.DrawBounds(v, lo, hi)
	}
}

// Close releases GPU and window resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
