// Package debug collects line geometry for rays and bounding boxes, plus
// screenshot capture.
package debug

import (
	"unsafe"

	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/pkg/math"
)

// LineVertex is a colored line endpoint, 28 bytes.
type LineVertex struct {
	Position [3]float32
	Color    [4]float32
}

// LineVertexSize is the byte stride of a LineVertex.
const LineVertexSize = int(unsafe.Sizeof(LineVertex{}))

// BoxEdgeVertices is the number of vertices AddBox appends (12 edges).
const BoxEdgeVertices = 24

// boxEdges indexes the 8 corners produced by corners().
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // bottom
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // top
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Lines accumulates world-space line segments for one frame.
type Lines struct {
	verts []LineVertex
}

// Add appends the segment a-b.
func (l *Lines) Add(a, b math.Vec3, color [4]float32) {
	l.verts = append(l.verts,
		LineVertex{Position: a.Array(), Color: color},
		LineVertex{Position: b.Array(), Color: color})
}

// AddRay draws length units of r from its origin.
func (l *Lines) AddRay(r collision.Ray, length float32, color [4]float32) {
	l.Add(r.Origin, r.At(length), color)
}

// AddBox draws the wireframe of the box [lo, hi] transformed by model.
func (l *Lines) AddBox(lo, hi math.Vec3, model math.Mat4, color [4]float32) {
	c := corners(lo, hi)
	for i := range c {
		c[i] = model.TransformPoint(c[i])
	}
	for _, e := range boxEdges {
		l.Add(c[e[0]], c[e[1]], color)
	}
}

// AddOBB draws an oriented box placed by model.
func (l *Lines) AddOBB(o collision.OBB, model math.Mat4, color [4]float32) {
	l.AddBox(o.Min, o.Max, model, color)
}

// Vertices returns the accumulated endpoints, two per segment.
func (l *Lines) Vertices() []LineVertex {
	return l.verts
}

// Len returns the number of vertices.
func (l *Lines) Len() int {
	return len(l.verts)
}

// Reset drops all segments and keeps the storage.
func (l *Lines) Reset() {
	l.verts = l.verts[:0]
}

// Bytes views line vertices as bytes.
func Bytes(vs []LineVertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), len(vs)*LineVertexSize)
}

// corners returns the box corners with bit 0 selecting x, bit 1 z and
// bit 2 y.
func corners(lo, hi math.Vec3) [8]math.Vec3 {
	var c [8]math.Vec3
	for i := range c {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Z = hi.Z
		}
		if i&4 != 0 {
			p.Y = hi.Y
		}
		c[i] = p
	}
	return c
}
