// Package camera provides the fly camera and perspective projection.
package camera

import (
	gomath "math"

	"github.com/Faultbox/batchforge/pkg/math"
)

// maxPitch keeps the forward vector away from the up axis.
const maxPitch = gomath.Pi/2 - 0.0001

var up = math.Vec3{Y: 1}

// Camera is a position plus yaw and pitch in radians. Yaw 0 looks down +X.
type Camera struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32
}

// New creates a camera.
func New(position math.Vec3, yaw, pitch float32) *Camera {
	c := &Camera{Position: position, Yaw: yaw}
	c.SetPitch(pitch)
	return c
}

// SetPitch sets the pitch, clamped short of straight up or down.
func (c *Camera) SetPitch(pitch float32) {
	if pitch > maxPitch {
		pitch = maxPitch
	}
	if pitch < -maxPitch {
		pitch = -maxPitch
	}
	c.Pitch = pitch
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math.Vec3 {
	sp, cp := gomath.Sincos(float64(c.Pitch))
	sy, cy := gomath.Sincos(float64(c.Yaw))
	return math.Vec3{
		X: float32(cp * cy),
		Y: float32(sp),
		Z: float32(cp * sy),
	}.Normalize()
}

// Right returns the unit vector to the right on the ground plane.
func (c *Camera) Right() math.Vec3 {
	sy, cy := gomath.Sincos(float64(c.Yaw))
	return math.Vec3{X: float32(-sy), Z: float32(cy)}
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target math.Vec3) {
	d := target.Sub(c.Position)
	if d.Length() == 0 {
		return
	}
	d = d.Normalize()
	c.Yaw = float32(gomath.Atan2(float64(d.Z), float64(d.X)))
	c.SetPitch(float32(gomath.Asin(float64(d.Y))))
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookTo(c.Position, c.Forward(), up)
}

// Projection is a perspective projection. FovY is in radians.
type Projection struct {
	Aspect float32
	FovY   float32
	Near   float32
	Far    float32
}

// NewProjection creates a projection for a width x height viewport.
func NewProjection(width, height int, fovY, near, far float32) *Projection {
	p := &Projection{FovY: fovY, Near: near, Far: far}
	p.Resize(width, height)
	return p
}

// Resize updates the aspect ratio. A zero height leaves it unchanged.
func (p *Projection) Resize(width, height int) {
	if height <= 0 {
		return
	}
	p.Aspect = float32(width) / float32(height)
}

// Matrix returns the projection matrix.
func (p *Projection) Matrix() math.Mat4 {
	return math.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// ViewProj returns projection * view.
func ViewProj(c *Camera, p *Projection) math.Mat4 {
	return p.Matrix().Mul(c.ViewMatrix())
}

// Radians converts degrees.
func Radians(deg float32) float32 {
	return deg * gomath.Pi / 180
}
