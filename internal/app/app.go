// Package app runs the window, input pump and frame driver together.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/config"
	"github.com/Faultbox/batchforge/internal/engine/arena"
	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/engine/camera"
	"github.com/Faultbox/batchforge/internal/engine/debug"
	"github.com/Faultbox/batchforge/internal/engine/frame"
	"github.com/Faultbox/batchforge/internal/engine/input"
	"github.com/Faultbox/batchforge/internal/engine/renderer"
	"github.com/Faultbox/batchforge/internal/engine/window"
	"github.com/Faultbox/batchforge/internal/gpu/glgpu"
	"github.com/Faultbox/batchforge/internal/logger"
	"github.com/Faultbox/batchforge/pkg/math"
)

// Scene populates the arena and registers systems before the loop starts.
type Scene func(d *frame.Driver) error

// App is the running demo.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	driver   *frame.Driver
	shots    *debug.Screenshots
	log      *zap.Logger
}

// New opens the window and builds the arena and asset server on top of
// its GL context.
func New(cfg *config.Config) (*App, error) {
	a := &App{config: cfg, log: logger.Named("app")}
	a.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.Size()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Render.ClearColor,
		DebugLines: cfg.Render.DebugLines,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	dev := glgpu.New()
	srv := assets.NewServer(cfg.Assets.BuildPath, dev)
	ctx := &frame.Context{
		Arena:      arena.New(dev, srv),
		Assets:     srv,
		Events:     frame.NewEvents(),
		Camera:     camera.New(math.Vec3{Z: 10}, camera.Radians(-90), 0),
		Projection: camera.NewProjection(width, height, camera.Radians(cfg.Render.FovYDeg), cfg.Render.Near, cfg.Render.Far),
	}
	ctx.Events.UpdateAspectRatio(width, height)

	a.driver = frame.NewDriver(ctx, a.renderer)
	a.input = input.New(width, height)
	a.shots = debug.NewScreenshots(".", "batchforge")

	a.log.Info("initialized")
	return a, nil
}

// Driver exposes the frame driver so scenes can register systems.
func (a *App) Driver() *frame.Driver {
	return a.driver
}

// Load runs scene setup.
func (a *App) Load(scene Scene) error {
	if err := scene(a.driver); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	ctx := a.driver.Context()
	a.log.Info("scene loaded", zap.Int("batches", ctx.Arena.Len()), zap.Int("materials", ctx.Assets.Materials()))
	return nil
}

// Run drives frames until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting loop")
	ctx := a.driver.Context()
	width, height := a.input.Size()

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if !a.input.Pump(ctx) {
			a.running = false
			break
		}
		a.handleKeys(ctx)
		if w, h := a.input.Size(); w != width || h != height {
			width, height = w, h
			a.renderer.Resize(w, h)
		}

		if err := a.driver.Step(dt); err != nil {
			return err
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (a *App) handleKeys(ctx *frame.Context) {
	ev := ctx.Events
	if ev.IsKeyPressed(input.KeyEscape) {
		a.running = false
	}
	if ev.IsKeyPressed(input.KeyF1) {
		a.config.Render.DebugLines = !a.config.Render.DebugLines
		a.renderer.SetDebugLines(a.config.Render.DebugLines)
	}
	if ev.IsKeyPressed(input.KeyF12) {
		a.screenshot(ctx)
	}
}

func (a *App) screenshot(ctx *frame.Context) {
	pixels, w, h, err := a.renderer.Capture(ctx)
	if err != nil {
		a.log.Warn("screenshot capture failed", zap.Error(err))
		return
	}
	path, err := a.shots.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot save failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources, then the window.
func (a *App) Close() {
	a.log.Info("closing")
	ctx := a.driver.Context()
	ctx.Arena.Close()
	ctx.Assets.Close()
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
