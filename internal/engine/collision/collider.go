package collision

import (
	"fmt"

	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

// Collider3D is one of OBB, Sphere or Ray.
type Collider3D interface {
	enabled() bool
	collider3D()
}

func (o OBB) enabled() bool    { return o.Enabled }
func (s Sphere) enabled() bool { return s.Enabled }
func (r Ray) enabled() bool    { return r.Enabled }

func (OBB) collider3D()    {}
func (Sphere) collider3D() {}
func (Ray) collider3D()    {}

// ResultKind classifies a collider pair query.
type ResultKind int

const (
	NotImplemented ResultKind = iota
	NoCollision
	Collision
)

func (k ResultKind) String() string {
	switch k {
	case NotImplemented:
		return "not-implemented"
	case NoCollision:
		return "no-collision"
	case Collision:
		return "collision"
	}
	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Result is the outcome of Check. Distance is set for Collision.
type Result struct {
	Kind     ResultKind
	Distance float32
}

// Hit reports whether the pair collided.
func (r Result) Hit() bool {
	return r.Kind == Collision
}

func resultOf(dist float32, hit bool) Result {
	if !hit {
		return Result{Kind: NoCollision}
	}
	return Result{Kind: Collision, Distance: dist}
}

// Check tests a against b. Each instance places its own collider; a nil
// instance means the identity transform. Supported pairs are OBB or Sphere
// against Ray, in either order. Other pairs return NotImplemented.
func Check(a Collider3D, aInst *instance.Instance, b Collider3D, bInst *instance.Instance) Result {
	switch x := a.(type) {
	case OBB:
		if ray, ok := b.(Ray); ok {
			return checkOBBRay(x, aInst, ray, bInst)
		}
	case Sphere:
		if ray, ok := b.(Ray); ok {
			return checkSphereRay(x, aInst, ray, bInst)
		}
	case Ray:
		switch y := b.(type) {
		case OBB:
			return checkOBBRay(y, bInst, x, aInst)
		case Sphere:
			return checkSphereRay(y, bInst, x, aInst)
		}
	}
	return Result{Kind: NotImplemented}
}

func active(c Collider3D, inst *instance.Instance) bool {
	return c.enabled() && (inst == nil || inst.Enabled)
}

func checkOBBRay(o OBB, oInst *instance.Instance, r Ray, rInst *instance.Instance) Result {
	if !active(o, oInst) || !active(r, rInst) {
		return Result{Kind: NoCollision}
	}
	model := math.Identity()
	if oInst != nil {
		model = oInst.Model()
	}
	return resultOf(OBBWithRay(r.Origin, r.Direction, o.Min, o.Max, model))
}

func checkSphereRay(s Sphere, sInst *instance.Instance, r Ray, rInst *instance.Instance) Result {
	if !active(s, sInst) || !active(r, rInst) {
		return Result{Kind: NoCollision}
	}
	center := s.Center
	if sInst != nil {
		center = center.Add(sInst.Position)
	}
	return resultOf(SphereWithRay(r.Origin, r.Direction, s.Radius, center))
}
