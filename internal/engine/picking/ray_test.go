package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/camera"
	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/pkg/math"
)

func approxVec(a, b math.Vec3) bool {
	const eps = 1e-3
	return gomath.Abs(float64(a.X-b.X)) < eps &&
		gomath.Abs(float64(a.Y-b.Y)) < eps &&
		gomath.Abs(float64(a.Z-b.Z)) < eps
}

func TestNormalizeMouse(t *testing.T) {
	tests := []struct {
		x, y float32
		want math.Vec2
	}{
		{0, 0, math.Vec2{X: -1, Y: 1}},
		{400, 300, math.Vec2{}},
		{800, 600, math.Vec2{X: 1, Y: -1}},
	}
	for _, tt := range tests {
		if got := NormalizeMouse(tt.x, tt.y, 800, 600); got != tt.want {
			t.Errorf("NormalizeMouse(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if got := NormalizeMouse(1, 1, 0, 0); got != (math.Vec2{}) {
		t.Errorf("zero viewport = %v", got)
	}
}

func TestMouseRayDirectionCenter(t *testing.T) {
	cam := camera.New(math.Vec3{Z: 5}, -gomath.Pi/2, 0)
	proj := camera.NewProjection(800, 600, camera.Radians(45), 0.1, 100)

	dir := MouseRayDirection(math.Vec2{}, proj.Matrix(), cam.ViewMatrix())
	if !approxVec(dir, cam.Forward()) {
		t.Errorf("center ray = %v, want camera forward %v", dir, cam.Forward())
	}
}

func TestMouseRayDirectionEdge(t *testing.T) {
	cam := camera.New(math.Vec3{}, -gomath.Pi/2, 0)
	proj := camera.NewProjection(100, 100, camera.Radians(90), 0.1, 100)

	// right edge of a 90 degree square frustum is 45 degrees off axis
	dir := MouseRayDirection(math.Vec2{X: 1}, proj.Matrix(), cam.ViewMatrix())
	want := math.Vec3{X: 1, Z: -1}.Normalize()
	if !approxVec(dir, want) {
		t.Errorf("edge ray = %v, want %v", dir, want)
	}
}

func TestMouseRayHitsCenteredBox(t *testing.T) {
	cam := camera.New(math.Vec3{Z: 10}, -gomath.Pi/2, 0)
	proj := camera.NewProjection(640, 480, camera.Radians(45), 0.1, 100)

	dir := MouseRayDirection(math.Vec2{}, proj.Matrix(), cam.ViewMatrix())
	d, hit := collision.OBBWithRay(cam.Position, dir,
		math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}, math.Identity())
	if !hit || gomath.Abs(float64(d-9)) > 1e-3 {
		t.Errorf("hit=%v d=%v, want hit at 9", hit, d)
	}
}

func TestScreenToRay(t *testing.T) {
	cam := camera.New(math.Vec3{Z: 10}, -gomath.Pi/2, 0)
	proj := camera.NewProjection(800, 600, camera.Radians(60), 0.1, 100)
	inv, ok := camera.ViewProj(cam, proj).Inverse()
	if !ok {
		t.Fatal("view-projection not invertible")
	}

	r := ScreenToRay(400, 300, 800, 600, inv)
	if !approxVec(r.Direction, math.Vec3{Z: -1}) {
		t.Errorf("direction = %v", r.Direction)
	}
	if !approxVec(r.Origin, math.Vec3{Z: 9.9}) {
		t.Errorf("origin = %v, want on the near plane", r.Origin)
	}
	if !r.Enabled {
		t.Error("ray should be enabled")
	}
}

func TestIntersectPlaneY(t *testing.T) {
	down := collision.NewRay(math.Vec3{X: 1, Y: 10, Z: 2}, math.Vec3{Y: -1})
	p, ok := IntersectPlaneY(down, 0)
	if !ok || !approxVec(p, math.Vec3{X: 1, Z: 2}) {
		t.Errorf("got %v, %v", p, ok)
	}

	flat := collision.NewRay(math.Vec3{Y: 1}, math.Vec3{X: 1})
	if _, ok := IntersectPlaneY(flat, 0); ok {
		t.Error("parallel ray should miss")
	}
	up := collision.NewRay(math.Vec3{Y: 1}, math.Vec3{Y: 1})
	if _, ok := IntersectPlaneY(up, 0); ok {
		t.Error("plane behind the ray should miss")
	}
}
