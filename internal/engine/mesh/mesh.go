// Package mesh holds CPU-side vertex data and the built-in primitives.
package mesh

import (
	"unsafe"
)

// Vertex is a position and a texture coordinate, 20 bytes.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// VertexSize is the byte stride of a Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Attribute offsets within a Vertex.
const (
	OffsetPosition  = 0
	OffsetTexCoords = 12
)

// Data is an indexed triangle list.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether there is nothing to draw.
func (d Data) Empty() bool {
	return len(d.Vertices) == 0 || len(d.Indices) == 0
}

// VertexBytes views vertices as bytes without copying.
func VertexBytes(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), len(vs)*VertexSize)
}

// IndexBytes views indices as bytes without copying.
func IndexBytes(is []uint32) []byte {
	if len(is) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&is[0])), len(is)*4)
}
