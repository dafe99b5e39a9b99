package collision

import (
	gomath "math"

	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

const (
	parallelEpsilon = 1e-10
	maxRayDistance  = 10000
)

// Ray is a half-line. Direction must be normalized.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
	Enabled   bool
}

// NewRay returns an enabled ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), Enabled: true}
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// OBB is a box given by local extents, oriented by an instance's model
// matrix.
type OBB struct {
	Min, Max math.Vec3
	Enabled  bool
}

// NewOBB returns an enabled box centered on the origin with the given edge
// lengths.
func NewOBB(xLen, yLen, zLen float32) OBB {
	h := math.Vec3{X: xLen / 2, Y: yLen / 2, Z: zLen / 2}
	return OBB{Min: h.Scale(-1), Max: h, Enabled: true}
}

// CheckCollisionWithRay intersects ray with the box placed by inst. It
// returns the entry distance.
func (o OBB) CheckCollisionWithRay(ray Ray, inst instance.Instance) (float32, bool) {
	if !o.Enabled || !ray.Enabled || !inst.Enabled {
		return 0, false
	}
	return OBBWithRay(ray.Origin, ray.Direction, o.Min, o.Max, inst.Model())
}

// OBBWithRay is the slab test against a box with local extents [boxMin, boxMax]
// transformed by model. dir must be normalized. The interval starts at
// [0, 10000] and narrows across all three axes; the result is its near end.
func OBBWithRay(origin, dir, boxMin, boxMax math.Vec3, model math.Mat4) (float32, bool) {
	tMin, tMax := float32(0), float32(maxRayDistance)
	delta := model.Translation().Sub(origin)

	lo, hi := boxMin.Array(), boxMax.Array()
	for i := 0; i < 3; i++ {
		axis := model.Col(i)
		e := axis.Dot(delta)
		f := dir.Dot(axis)

		if gomath.Abs(float64(f)) > parallelEpsilon {
			t1 := (e + lo[i]) / f
			t2 := (e + hi[i]) / f
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t2 < tMax {
				tMax = t2
			}
			if t1 > tMin {
				tMin = t1
			}
			if tMax < tMin {
				return 0, false
			}
			continue
		}

		// parallel to this slab: the origin has to be inside it already
		if -e+lo[i] > 0 || -e+hi[i] < 0 {
			return 0, false
		}
	}
	return tMin, true
}

// Sphere is a ball around Center, offset by the owning instance position.
type Sphere struct {
	Center  math.Vec3
	Radius  float32
	Enabled bool
}

// NewSphere returns an enabled sphere.
func NewSphere(center math.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius, Enabled: true}
}

// CheckCollisionWithRay intersects ray with the sphere moved to inst.
func (s Sphere) CheckCollisionWithRay(ray Ray, inst instance.Instance) (float32, bool) {
	if !s.Enabled || !ray.Enabled || !inst.Enabled {
		return 0, false
	}
	return SphereWithRay(ray.Origin, ray.Direction, s.Radius, s.Center.Add(inst.Position))
}

// SphereWithRay is the discriminant test. A hit is any h >= 0, which
// includes spheres behind the origin. The distance is the near root and is
// negative in that case or when the origin is inside.
func SphereWithRay(origin, dir math.Vec3, radius float32, center math.Vec3) (float32, bool) {
	delta := origin.Sub(center)
	b := delta.Dot(dir)
	c := delta.Dot(delta) - radius*radius
	h := b*b - c
	if h < 0 {
		return 0, false
	}
	return -b - float32(gomath.Sqrt(float64(h))), true
}
