package collision

import (
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

func TestCheckPairs(t *testing.T) {
	ray := NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})
	obb := NewOBB(2, 2, 2)
	sphere := NewSphere(math.Vec3{}, 1)
	moved := instance.At(math.Vec3{X: 2})
	rayInst := instance.At(math.Vec3{Y: 100})

	tests := []struct {
		name     string
		a        Collider3D
		aInst    *instance.Instance
		b        Collider3D
		bInst    *instance.Instance
		wantKind ResultKind
		wantDist float32
	}{
		{"obb-ray default transform", obb, nil, ray, nil, Collision, 4},
		{"obb-ray moved box", obb, &moved, ray, nil, Collision, 6},
		{"ray-obb uses box instance", ray, &rayInst, obb, &moved, Collision, 6},
		{"sphere-ray", sphere, nil, ray, nil, Collision, 4},
		{"ray-sphere moved", ray, nil, sphere, &moved, Collision, 6},
		{"obb-obb", obb, nil, obb, nil, NotImplemented, 0},
		{"obb-sphere", obb, nil, sphere, nil, NotImplemented, 0},
		{"sphere-sphere", sphere, nil, sphere, nil, NotImplemented, 0},
		{"ray-ray", ray, nil, ray, nil, NotImplemented, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.a, tt.aInst, tt.b, tt.bInst)
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Kind == Collision && !near(got.Distance, tt.wantDist) {
				t.Errorf("Distance = %v, want %v", got.Distance, tt.wantDist)
			}
		})
	}
}

func TestCheckMiss(t *testing.T) {
	ray := NewRay(math.Vec3{X: -5, Y: 2}, math.Vec3{X: 1})
	res := Check(NewOBB(2, 2, 2), nil, ray, nil)
	if res.Kind != NoCollision || res.Hit() {
		t.Errorf("result = %+v, want no collision", res)
	}
}

func TestCheckDisabled(t *testing.T) {
	ray := NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})
	obb := NewOBB(2, 2, 2)
	off := instance.New()
	off.Enabled = false

	if res := Check(obb, &off, ray, nil); res.Kind != NoCollision {
		t.Errorf("disabled instance: %v", res.Kind)
	}
	obb.Enabled = false
	if res := Check(ray, nil, obb, nil); res.Kind != NoCollision {
		t.Errorf("disabled collider: %v", res.Kind)
	}
}

func TestResultKindString(t *testing.T) {
	if Collision.String() != "collision" || ResultKind(9).String() != "ResultKind(9)" {
		t.Error("unexpected ResultKind strings")
	}
}
