package main

import (
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/app"
	"github.com/Faultbox/batchforge/internal/config"
	"github.com/Faultbox/batchforge/internal/engine/arena"
	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/internal/engine/frame"
	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/internal/engine/mesh"
	"github.com/Faultbox/batchforge/internal/gpu"
	"github.com/Faultbox/batchforge/internal/logger"
	"github.com/Faultbox/batchforge/pkg/math"
)

var (
	red    = [4]float32{1, 0.2, 0.2, 1}
	green  = [4]float32{0.2, 1, 0.2, 1}
	yellow = [4]float32{1, 1, 0.2, 1}
)

func sceneFor(cfg *config.Config) (app.Scene, error) {
	switch cfg.Demo.Scene {
	case "cubes":
		return func(d *frame.Driver) error { return cubesScene(d, cfg) }, nil
	case "sprites":
		return func(d *frame.Driver) error { return spritesScene(d, cfg) }, nil
	case "button":
		return func(d *frame.Driver) error { return buttonScene(d, cfg) }, nil
	case "picking":
		return func(d *frame.Driver) error { return pickingScene(d, cfg) }, nil
	}
	return nil, fmt.Errorf("scene %q: want cubes, sprites, button or picking", cfg.Demo.Scene)
}

// grid lays out n*n instances on the XY plane, centered on the origin.
func grid(n int, spacing float32) []instance.Instance {
	out := make([]instance.Instance, 0, n*n)
	offset := float32(n-1) * spacing / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			pos := math.Vec3{X: float32(col)*spacing - offset, Y: float32(row)*spacing - offset}
			out = append(out, instance.At(pos))
		}
	}
	return out
}

// modelOrCube loads the configured model, falling back to the builtin cube.
func modelOrCube(ctx *frame.Context, cfg *config.Config, instances []instance.Instance) (arena.Handle, []instance.Instance, error) {
	if cfg.Demo.Model != "" {
		h, bound, err := ctx.Arena.CreateModelBatch(cfg.Demo.Model, instances, true)
		if err == nil {
			return h, bound, nil
		}
		logger.Warn("model unavailable, using builtin cube", zap.String("model", cfg.Demo.Model), zap.Error(err))
	}
	return ctx.Arena.CreateModelBatch(assets.BuiltinCube, instances, true)
}

// materialOrChecker compiles the configured texture, falling back to the
// builtin checker.
func materialOrChecker(ctx *frame.Context, cfg *config.Config) (assets.MaterialID, error) {
	if cfg.Demo.Texture != "" {
		id, err := ctx.Assets.CompileMaterial(cfg.Demo.Texture, gpu.ParseFilter(cfg.Assets.DefaultFilter))
		if err == nil {
			return id, nil
		}
		logger.Warn("texture unavailable, using checker", zap.String("texture", cfg.Demo.Texture), zap.Error(err))
	}
	return ctx.Assets.CompileMaterial(assets.BuiltinChecker, gpu.FilterNearest)
}

// orbit circles the camera around the origin at the given distance.
func orbit(distance float32, speed float64) frame.CameraUpdate {
	return func(ctx *frame.Context) {
		angle := ctx.Elapsed.Seconds() * speed
		s, c := gomath.Sincos(angle)
		ctx.Camera.Position = math.Vec3{X: distance * float32(s), Y: distance / 4, Z: distance * float32(c)}
		ctx.Camera.LookAt(math.Vec3{})
	}
}

func cubesScene(d *frame.Driver, cfg *config.Config) error {
	ctx := d.Context()
	h, cubes, err := modelOrCube(ctx, cfg, grid(cfg.Demo.GridRow, cfg.Demo.Spacing))
	if err != nil {
		return err
	}

	d.SetCameraUpdate(orbit(float32(cfg.Demo.GridRow)*cfg.Demo.Spacing*1.5, 0.2))
	d.AddSystem("spin", func(ctx *frame.Context) error {
		t := float32(ctx.Elapsed.Seconds())
		for i := range cubes {
			axis := math.Vec3{X: 1, Y: float32(i%3) - 1, Z: 0.5}.Normalize()
			cubes[i].Rotation = math.QuatFromAxisAngle(axis, t*(1+float32(i%5)*0.25))
		}
		return ctx.Arena.UpdateInstances(h, cubes)
	})
	return nil
}

func spritesScene(d *frame.Driver, cfg *config.Config) error {
	ctx := d.Context()
	mat, err := materialOrChecker(ctx, cfg)
	if err != nil {
		return err
	}

	// Screen-space sprites in a ring around the center.
	const count = 12
	sprites := make([]instance.Instance, count)
	for i := range sprites {
		a := 2 * gomath.Pi * float64(i) / count
		s, c := gomath.Sincos(a)
		sprites[i] = instance.At(math.Vec3{X: 0.6 * float32(c), Y: 0.6 * float32(s)})
		sprites[i].WorldSpace = false
	}
	h, sprites, err := ctx.Arena.CreateSpriteBatch(mat, sprites, true)
	if err != nil {
		return err
	}

	// A static world-space field under the ring.
	field := grid(cfg.Demo.GridRow, cfg.Demo.Spacing)
	if _, _, err := ctx.Arena.CreateSpriteBatch(mat, field, false); err != nil {
		return err
	}
	d.SetCameraUpdate(orbit(float32(cfg.Demo.GridRow)*cfg.Demo.Spacing, 0.1))

	d.AddSystem("blink", func(ctx *frame.Context) error {
		// Every other sprite is hidden on alternate seconds.
		odd := int(ctx.Elapsed.Seconds())%2 == 1
		for i := range sprites {
			sprites[i].Enabled = !odd || i%2 == 0
			sprites[i].Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, float32(ctx.Elapsed.Seconds()))
		}
		return ctx.Arena.UpdateInstances(h, sprites)
	})
	return nil
}

func buttonScene(d *frame.Driver, cfg *config.Config) error {
	ctx := d.Context()
	mat, err := ctx.Assets.CompileMaterial(assets.BuiltinWhite, gpu.FilterNearest)
	if err != nil {
		return err
	}

	const halfW, halfH = 0.3, 0.1
	btn := instance.WithColor(math.Vec3{}, red)
	btn.WorldSpace = false
	h, bound, err := ctx.Arena.CreateBatch(mesh.Rect(halfW, halfH), mat, []instance.Instance{btn}, true)
	if err != nil {
		return err
	}
	btn = bound[0]
	box := collision.NewBox2D(math.Vec2{X: -halfW, Y: -halfH}, math.Vec2{X: halfW, Y: halfH})
	log := logger.Named("button")

	d.AddSystem("hover", func(ctx *frame.Context) error {
		want := red
		if box.CheckCollision(btn, ctx.MouseContext()) {
			want = green
			if ctx.Events.LeftClicked() {
				log.Info("button clicked", zap.Stringer("batch", btn.Handle))
			}
			if ctx.Events.LeftHeld() {
				want = yellow
			}
		}
		if btn.Color == want {
			return nil
		}
		btn.Color = want
		return ctx.Arena.UpdateInstances(h, []instance.Instance{btn})
	})
	return nil
}

func pickingScene(d *frame.Driver, cfg *config.Config) error {
	ctx := d.Context()
	h, cubes, err := ctx.Arena.CreateModelBatch(assets.BuiltinCube, grid(cfg.Demo.GridRow, cfg.Demo.Spacing), true)
	if err != nil {
		return err
	}
	ctx.Camera.Position = math.Vec3{Z: float32(cfg.Demo.GridRow) * cfg.Demo.Spacing * 1.2}
	ctx.Camera.LookAt(math.Vec3{})

	obb := collision.NewOBB(2, 2, 2)
	log := logger.Named("picking")
	report := frame.NewTimer(time.Second)
	hovered := -1

	d.AddSystem("pick", func(ctx *frame.Context) error {
		ray := ctx.MouseRay()
		t := float32(ctx.Elapsed.Seconds())

		best, bestDist := -1, float32(gomath.MaxFloat32)
		for i := range cubes {
			cubes[i].Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, t*0.5)
			cubes[i].Color = instance.White
			res := collision.Check(obb, &cubes[i], ray, nil)
			if res.Hit() && res.Distance < bestDist {
				best, bestDist = i, res.Distance
			}
			ctx.Lines.AddOBB(obb, cubes[i].Model(), [4]float32{0.3, 0.3, 0.3, 1})
		}
		if best >= 0 {
			cubes[best].Color = red
			ctx.Lines.AddOBB(obb, cubes[best].Model(), yellow)
			if ctx.Events.LeftClicked() {
				cubes[best].Enabled = false
				log.Info("cube hidden", zap.Int("index", best))
			}
		}
		length := float32(50)
		if best >= 0 {
			length = bestDist
		}
		ctx.Lines.AddRay(ray, length, green)

		report.Tick(ctx.DT)
		if report.Finished() || best != hovered {
			log.Debug("hover", zap.Int("index", best), zap.Float32("distance", bestDist))
			report.Reset(time.Second)
			hovered = best
		}
		return ctx.Arena.UpdateInstances(h, cubes)
	})
	return nil
}
