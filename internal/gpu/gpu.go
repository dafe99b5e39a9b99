// Package gpu defines the narrow device surface the engine uploads through.
//
// Production code uses the OpenGL implementation in gpu/glgpu. Tests and
// headless tools use MemoryUploader.
package gpu

import (
	"errors"
	"image"
	"strings"
)

// Usage is a bit set describing how a buffer is bound.
type Usage uint32

const (
	UsageVertex Usage = 1 << iota
	UsageIndex
	UsageUniform
	// UsageCopyDst allows WriteBuffer after creation.
	UsageCopyDst
)

// Has reports whether all bits in f are set.
func (u Usage) Has(f Usage) bool {
	return u&f == f
}

func (u Usage) String() string {
	if u == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		bit  Usage
		name string
	}{
		{UsageVertex, "vertex"},
		{UsageIndex, "index"},
		{UsageUniform, "uniform"},
		{UsageCopyDst, "copy-dst"},
	} {
		if u.Has(f.bit) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Buffer is a device buffer. ID is the device-side name.
type Buffer struct {
	ID    uint32
	Size  int
	Usage Usage
	Label string
}

// Filter selects texture sampling.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

func (f Filter) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "linear"
}

// ParseFilter parses "linear" or "nearest". Anything else is linear.
func ParseFilter(s string) Filter {
	if strings.EqualFold(s, "nearest") {
		return FilterNearest
	}
	return FilterLinear
}

// Texture is a device texture.
type Texture struct {
	ID     uint32
	Width  int
	Height int
	Filter Filter
	Label  string
}

// Buffer errors.
var (
	ErrNotCopyDst    = errors.New("gpu: buffer not created with copy-dst usage")
	ErrOutOfRange    = errors.New("gpu: write exceeds buffer size")
	ErrUnknownBuffer = errors.New("gpu: unknown buffer")
	ErrEmptyTexture  = errors.New("gpu: texture has no pixels")
)

// Uploader creates and writes device buffers.
type Uploader interface {
	// CreateBuffer allocates a buffer initialized with data. The buffer size
	// is len(data).
	CreateBuffer(label string, data []byte, usage Usage) (Buffer, error)
	// WriteBuffer copies data into buf starting at offset bytes.
	WriteBuffer(buf Buffer, offset int, data []byte) error
	DestroyBuffer(buf Buffer)
}

// TextureUploader creates sampled textures.
type TextureUploader interface {
	CreateTexture(label string, img *image.RGBA, filter Filter) (Texture, error)
	DestroyTexture(tex Texture)
}

// Device is the full upload surface.
type Device interface {
	Uploader
	TextureUploader
}

func checkWrite(buf Buffer, offset int, data []byte) error {
	if !buf.Usage.Has(UsageCopyDst) {
		return ErrNotCopyDst
	}
	if offset < 0 || offset+len(data) > buf.Size {
		return ErrOutOfRange
	}
	return nil
}
