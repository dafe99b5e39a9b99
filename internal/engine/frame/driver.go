// Package frame sequences one frame: camera update, gameplay systems, then
// the render pass, all on the calling goroutine.
package frame

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/engine/arena"
	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/engine/camera"
	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/internal/engine/debug"
	"github.com/Faultbox/batchforge/internal/logger"
	"github.com/Faultbox/batchforge/pkg/math"
)

// Context is what systems and the renderer see.
type Context struct {
	Arena      *arena.Store
	Assets     *assets.Server
	Events     *Events
	Camera     *camera.Camera
	Projection *camera.Projection
	Lines      *debug.Lines

	// View and ViewProj are refreshed after the camera update.
	View     math.Mat4
	ViewProj math.Mat4

	DT      time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// MouseRay returns the ray from the camera through the pointer.
func (c *Context) MouseRay() collision.Ray {
	return collision.Ray{Origin: c.Camera.Position, Direction: c.Events.MouseRay, Enabled: true}
}

// MouseContext returns the pointer state for 2D picking.
func (c *Context) MouseContext() collision.MouseContext {
	return collision.MouseContext{Mouse: c.Events.ScreenMouse, AspectRatio: c.Events.AspectRatio}
}

// Resize updates the projection and the aspect ratio.
func (c *Context) Resize(width, height int) {
	c.Projection.Resize(width, height)
	c.Events.UpdateAspectRatio(width, height)
}

// System is a gameplay callback run once per frame.
type System func(ctx *Context) error

// CameraUpdate moves the camera before systems run.
type CameraUpdate func(ctx *Context)

// Renderer draws the arena after systems have run.
type Renderer interface {
	Render(ctx *Context) error
}

type namedSystem struct {
	name string
	fn   System
}

// Driver runs frames in a fixed order.
type Driver struct {
	ctx      *Context
	camera   CameraUpdate
	systems  []namedSystem
	renderer Renderer
	log      *zap.Logger
}

// NewDriver creates a driver over ctx. r may be nil for headless use.
func NewDriver(ctx *Context, r Renderer) *Driver {
	if ctx.Events == nil {
		ctx.Events = NewEvents()
	}
	if ctx.Lines == nil {
		ctx.Lines = &debug.Lines{}
	}
	return &Driver{
		ctx:      ctx,
		renderer: r,
		log:      logger.Named("frame"),
	}
}

// Context returns the shared frame context.
func (d *Driver) Context() *Context {
	return d.ctx
}

// SetCameraUpdate installs the per-frame camera hook.
func (d *Driver) SetCameraUpdate(fn CameraUpdate) {
	d.camera = fn
}

// AddSystem appends a system. Systems run in the order added.
func (d *Driver) AddSystem(name string, fn System) {
	d.systems = append(d.systems, namedSystem{name: name, fn: fn})
	d.log.Debug("system added", zap.String("name", name), zap.Int("count", len(d.systems)))
}

// Step runs one frame. All arena updates made by systems complete before
// the renderer reads the arena.
func (d *Driver) Step(dt time.Duration) error {
	ctx := d.ctx
	ctx.DT = dt
	ctx.Elapsed += dt
	ctx.Frame++

	if d.camera != nil {
		d.camera(ctx)
	}
	d.refreshCamera()

	for _, s := range d.systems {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("system %s: %w", s.name, err)
		}
	}
	ctx.Events.ClearKeys()

	if d.renderer != nil {
		if err := d.renderer.Render(ctx); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	ctx.Lines.Reset()
	ctx.Events.NextFrame()
	return nil
}

func (d *Driver) refreshCamera() {
	ctx := d.ctx
	if ctx.Camera == nil || ctx.Projection == nil {
		return
	}
	proj := ctx.Projection.Matrix()
	ctx.View = ctx.Camera.ViewMatrix()
	ctx.ViewProj = proj.Mul(ctx.View)
	ctx.Events.UpdateWorldMouse(ctx.Camera)
	ctx.Events.CalculateMouseRay(proj, ctx.View)
}
