package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/batchforge/internal/engine/frame"
)

// target is an offscreen color+depth framebuffer used for captures.
type target struct {
	fbo, color, depth uint32
	width, height     int32
}

func newTarget(width, height int32) (*target, error) {
	t := &target{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.color)
	gl.GenRenderbuffers(1, &t.depth)
	t.resize(max(width, 1), max(height, 1))

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("capture framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

func (t *target) resize(width, height int32) {
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height

	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// bind makes t the draw target and returns a func restoring the previous
// framebuffer and viewport.
func (t *target) bind() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// pixels reads the color attachment as bottom-up RGBA rows. t must be bound.
func (t *target) pixels() []byte {
	out := make([]byte, int(t.width)*int(t.height)*4)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(out))
	return out
}

func (t *target) destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
	}
	if t.color != 0 {
		gl.DeleteTextures(1, &t.color)
	}
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
	}
	*t = target{}
}

// Capture renders ctx into an offscreen target at the current viewport size
// and returns the bottom-up RGBA pixels.
func (r *Renderer) Capture(ctx *frame.Context) ([]byte, int, int, error) {
	w, h := int32(r.config.Width), int32(r.config.Height)
	if r.capture == nil {
		t, err := newTarget(w, h)
		if err != nil {
			return nil, 0, 0, err
		}
		r.capture = t
	}
	r.capture.resize(max(w, 1), max(h, 1))

	restore := r.capture.bind()
	defer restore()

	if err := r.Render(ctx); err != nil {
		return nil, 0, 0, err
	}
	return r.capture.pixels(), int(r.capture.width), int(r.capture.height), nil
}
