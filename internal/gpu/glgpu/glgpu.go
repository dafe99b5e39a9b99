// Package glgpu implements gpu.Device on OpenGL 4.1 core.
//
// All calls must happen on the thread that owns the GL context.
package glgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/gpu"
	"github.com/Faultbox/batchforge/internal/logger"
)

// Device uploads through the current GL context.
type Device struct {
	log *zap.Logger
}

// New returns a device bound to the current context.
func New() *Device {
	return &Device{log: logger.Named("gpu")}
}

func target(usage gpu.Usage) uint32 {
	switch {
	case usage.Has(gpu.UsageIndex):
		return gl.ELEMENT_ARRAY_BUFFER
	case usage.Has(gpu.UsageUniform):
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

// CreateBuffer allocates a buffer object. Buffers without copy-dst usage get
// a STATIC_DRAW hint and are never written again.
func (d *Device) CreateBuffer(label string, data []byte, usage gpu.Usage) (gpu.Buffer, error) {
	hint := uint32(gl.STATIC_DRAW)
	if usage.Has(gpu.UsageCopyDst) {
		hint = gl.DYNAMIC_DRAW
	}

	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return gpu.Buffer{}, fmt.Errorf("create buffer %q: glGenBuffers returned 0", label)
	}

	t := target(usage)
	gl.BindBuffer(t, id)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(t, len(data), ptr, hint)
	gl.BindBuffer(t, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return gpu.Buffer{}, fmt.Errorf("create buffer %q: GL error 0x%x", label, errCode)
	}

	d.log.Debug("buffer created",
		zap.String("label", label),
		zap.Uint32("id", id),
		zap.Int("size", len(data)),
		zap.Stringer("usage", usage))

	return gpu.Buffer{ID: id, Size: len(data), Usage: usage, Label: label}, nil
}

func (d *Device) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	if buf.ID == 0 {
		return fmt.Errorf("write %q: %w", buf.Label, gpu.ErrUnknownBuffer)
	}
	if !buf.Usage.Has(gpu.UsageCopyDst) {
		return fmt.Errorf("write %q: %w", buf.Label, gpu.ErrNotCopyDst)
	}
	if offset < 0 || offset+len(data) > buf.Size {
		return fmt.Errorf("write %q: %w", buf.Label, gpu.ErrOutOfRange)
	}
	if len(data) == 0 {
		return nil
	}

	t := target(buf.Usage)
	gl.BindBuffer(t, buf.ID)
	gl.BufferSubData(t, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(t, 0)
	return nil
}

func (d *Device) DestroyBuffer(buf gpu.Buffer) {
	if buf.ID == 0 {
		return
	}
	gl.DeleteBuffers(1, &buf.ID)
}

// CreateTexture uploads an RGBA image with mipmaps.
func (d *Device) CreateTexture(label string, img *image.RGBA, filter gpu.Filter) (gpu.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return gpu.Texture{}, fmt.Errorf("texture %q: %w", label, gpu.ErrEmptyTexture)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	switch filter {
	case gpu.FilterNearest:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	default:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	d.log.Debug("texture created",
		zap.String("label", label),
		zap.Uint32("id", id),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Stringer("filter", filter))

	return gpu.Texture{ID: id, Width: w, Height: h, Filter: filter, Label: label}, nil
}

func (d *Device) DestroyTexture(tex gpu.Texture) {
	if tex.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.ID)
}

var _ gpu.Device = (*Device)(nil)
