// Package collision answers point and ray queries against instance
// transforms. Queries never mutate their inputs; "no hit" is an ordinary
// result, not an error.
package collision

import (
	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/pkg/math"
)

// MouseContext is the pointer state 2D picking needs: the mouse in
// normalized device coordinates and the window aspect ratio.
type MouseContext struct {
	Mouse       math.Vec2
	AspectRatio float32
}

// Project combines the mouse with an instance position into the point that
// 2D shapes test. Only y is divided by the aspect ratio.
func (c MouseContext) Project(pos math.Vec2) math.Vec2 {
	aspect := c.AspectRatio
	if aspect == 0 {
		aspect = 1
	}
	return math.Vec2{
		X: c.Mouse.X + pos.X,
		Y: (c.Mouse.Y + pos.Y) / aspect,
	}
}

// Box2D is an axis-aligned rectangle. Containment is strict: points on an
// edge are outside.
type Box2D struct {
	XMin, XMax float32
	YMin, YMax float32
	Enabled    bool
}

// NewBox2D returns an enabled box spanning two opposite corners.
func NewBox2D(p1, p2 math.Vec2) Box2D {
	lo, hi := p1.Min(p2), p1.Max(p2)
	return Box2D{XMin: lo.X, XMax: hi.X, YMin: lo.Y, YMax: hi.Y, Enabled: true}
}

// Contains reports whether p lies strictly inside the box.
func (b Box2D) Contains(p math.Vec2) bool {
	if !b.Enabled {
		return false
	}
	return p.X > b.XMin && p.X < b.XMax && p.Y > b.YMin && p.Y < b.YMax
}

// CheckCollision tests the mouse against the box attached to inst.
func (b Box2D) CheckCollision(inst instance.Instance, ctx MouseContext) bool {
	if !inst.Enabled {
		return false
	}
	return b.Contains(ctx.Project(inst.Pos2D()))
}

// Circle2D is a disc. Points on the rim are outside.
type Circle2D struct {
	Center  math.Vec2
	Radius  float32
	Enabled bool
}

// NewCircle2D returns an enabled circle.
func NewCircle2D(center math.Vec2, radius float32) Circle2D {
	return Circle2D{Center: center, Radius: radius, Enabled: true}
}

// Contains reports whether p is closer to the center than the radius.
func (c Circle2D) Contains(p math.Vec2) bool {
	if !c.Enabled {
		return false
	}
	return p.Distance(c.Center) < c.Radius
}

// CheckCollision tests the mouse against the circle attached to inst, using
// the same projection as Box2D.
func (c Circle2D) CheckCollision(inst instance.Instance, ctx MouseContext) bool {
	if !inst.Enabled {
		return false
	}
	return c.Contains(ctx.Project(inst.Pos2D()))
}
