// Package picking turns pointer positions into world-space rays.
package picking

import (
	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/pkg/math"
)

// NormalizeMouse converts pixel coordinates to normalized device
// coordinates: x and y in [-1, 1], y up.
func NormalizeMouse(x, y float32, width, height int) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: 2*x/float32(width) - 1,
		Y: 1 - 2*y/float32(height),
	}
}

// MouseRayDirection returns the normalized world-space direction through an
// NDC point: the point is unprojected by the inverse projection, forced to
// a forward vector in eye space, then rotated by the inverse view.
func MouseRayDirection(ndc math.Vec2, proj, view math.Mat4) math.Vec3 {
	invProj, ok := proj.Inverse()
	if !ok {
		return math.Vec3{}
	}
	invView, ok := view.Inverse()
	if !ok {
		return math.Vec3{}
	}
	eye := invProj.MulVec4(math.Vec4{ndc.X, ndc.Y, -1, 1})
	eye = math.Vec4{eye[0], eye[1], -1, 0}
	return invView.MulVec4(eye).XYZ().Normalize()
}

// ScreenToRay unprojects pixel coordinates through the near and far planes.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY float32, width, height int, invViewProj math.Mat4) collision.Ray {
	ndc := NormalizeMouse(screenX, screenY, width, height)

	near := invViewProj.TransformPoint(math.Vec3{X: ndc.X, Y: ndc.Y, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndc.X, Y: ndc.Y, Z: 1})

	return collision.NewRay(near, far.Sub(near))
}

// IntersectPlaneY intersects r with the horizontal plane y = planeY.
func IntersectPlaneY(r collision.Ray, planeY float32) (math.Vec3, bool) {
	if r.Direction.Y > -0.001 && r.Direction.Y < 0.001 {
		return math.Vec3{}, false
	}
	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}
