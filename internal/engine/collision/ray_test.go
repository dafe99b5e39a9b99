package collision

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func TestOBBWithRayAxisAligned(t *testing.T) {
	lo := math.Vec3{X: -1, Y: -1, Z: -1}
	hi := math.Vec3{X: 1, Y: 1, Z: 1}
	plusX := math.Vec3{X: 1}

	tests := []struct {
		name    string
		origin  math.Vec3
		dir     math.Vec3
		model   math.Mat4
		wantHit bool
		wantT   float32
	}{
		{"through center", math.Vec3{X: -5}, plusX, math.Identity(), true, 4},
		{"offset beyond half extent", math.Vec3{X: -5, Y: 2}, plusX, math.Identity(), false, 0},
		{"grazing inside y", math.Vec3{X: -5, Y: 0.9}, plusX, math.Identity(), true, 4},
		{"translated box", math.Vec3{X: -5}, plusX, math.Translate(3, 0, 0), true, 7},
		{"pointing away", math.Vec3{X: -5}, math.Vec3{X: -1}, math.Identity(), false, 0},
		{"origin inside", math.Vec3{}, plusX, math.Identity(), true, 0},
		{"diagonal", math.Vec3{X: -5, Y: -5}, math.Vec3{X: 1, Y: 1}.Normalize(), math.Identity(), true, 4 * float32(gomath.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := OBBWithRay(tt.origin, tt.dir, lo, hi, tt.model)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !near(d, tt.wantT) {
				t.Errorf("t = %v, want %v", d, tt.wantT)
			}
		})
	}
}

func TestOBBWithRayRotated(t *testing.T) {
	obb := NewOBB(4, 2, 2)
	ray := NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})

	inst := instance.New()
	d, hit := obb.CheckCollisionWithRay(ray, inst)
	if !hit || !near(d, 3) {
		t.Fatalf("unrotated: t=%v hit=%v, want 3", d, hit)
	}

	// 90 degrees about Z puts the short local Y extent across world X.
	inst.Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2)
	d, hit = obb.CheckCollisionWithRay(ray, inst)
	if !hit || !near(d, 4) {
		t.Errorf("rotated: t=%v hit=%v, want 4", d, hit)
	}

	// the long extent now spans world Y, so y=1.5 still hits
	high := NewRay(math.Vec3{X: -5, Y: 1.5}, math.Vec3{X: 1})
	if _, hit := obb.CheckCollisionWithRay(high, inst); !hit {
		t.Error("rotated box should reach y=1.5")
	}
}

func TestSphereWithRay(t *testing.T) {
	plusX := math.Vec3{X: 1}

	tests := []struct {
		name    string
		origin  math.Vec3
		radius  float32
		center  math.Vec3
		wantHit bool
		wantT   float32
	}{
		{"through center r=1", math.Vec3{X: -5}, 1, math.Vec3{}, true, 4},
		{"through center small radius", math.Vec3{X: -5}, 0.01, math.Vec3{}, true, 4.99},
		{"through center large radius", math.Vec3{X: -50}, 30, math.Vec3{}, true, 20},
		{"closest approach beyond radius", math.Vec3{Y: 5}, 1, math.Vec3{}, false, 0},
		{"tangent", math.Vec3{X: -5, Y: 1}, 1, math.Vec3{}, true, 5},
		{"offset center", math.Vec3{X: -5, Y: 3}, 1, math.Vec3{Y: 3}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := SphereWithRay(tt.origin, plusX, tt.radius, tt.center)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !near(d, tt.wantT) {
				t.Errorf("t = %v, want %v", d, tt.wantT)
			}
		})
	}
}

func TestSphereFollowsInstance(t *testing.T) {
	s := NewSphere(math.Vec3{}, 1)
	ray := NewRay(math.Vec3{X: -5, Y: 10}, math.Vec3{X: 1})

	if _, hit := s.CheckCollisionWithRay(ray, instance.New()); hit {
		t.Error("sphere at origin should miss a ray at y=10")
	}
	if _, hit := s.CheckCollisionWithRay(ray, instance.At(math.Vec3{Y: 10})); !hit {
		t.Error("sphere moved to y=10 should be hit")
	}
}

func TestDisabled3D(t *testing.T) {
	ray := NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})
	obb := NewOBB(2, 2, 2)
	sphere := NewSphere(math.Vec3{}, 1)
	inst := instance.New()

	off := inst
	off.Enabled = false
	if _, hit := obb.CheckCollisionWithRay(ray, off); hit {
		t.Error("OBB hit on disabled instance")
	}
	if _, hit := sphere.CheckCollisionWithRay(ray, off); hit {
		t.Error("sphere hit on disabled instance")
	}

	offRay := ray
	offRay.Enabled = false
	if _, hit := obb.CheckCollisionWithRay(offRay, inst); hit {
		t.Error("disabled ray hit OBB")
	}

	obb.Enabled = false
	sphere.Enabled = false
	if _, hit := obb.CheckCollisionWithRay(ray, inst); hit {
		t.Error("disabled OBB hit")
	}
	if _, hit := sphere.CheckCollisionWithRay(ray, inst); hit {
		t.Error("disabled sphere hit")
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(math.Vec3{X: 1}, math.Vec3{Y: 2})
	if got := r.At(3); got != (math.Vec3{X: 1, Y: 3}) {
		t.Errorf("At(3) = %v", got)
	}
}
