// Package renderer draws the batch arena and debug lines with OpenGL 4.1.
package renderer

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/engine/arena"
	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/engine/debug"
	"github.com/Faultbox/batchforge/internal/engine/frame"
	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/internal/engine/mesh"
	"github.com/Faultbox/batchforge/internal/engine/shader"
	"github.com/Faultbox/batchforge/internal/logger"
)

var (
	//go:embed shaders/instanced.vert
	instancedVert string
	//go:embed shaders/instanced.frag
	instancedFrag string
	//go:embed shaders/line.vert
	lineVert string
	//go:embed shaders/line.frag
	lineFrag string
)

// Vertex attribute locations shared with shaders/instanced.vert.
const (
	attrPosition   = 0
	attrTexCoords  = 1
	attrModel      = 2 // four vec4 columns: 2..5
	attrColor      = 6
	attrWorldSpace = 7
)

// Config holds renderer settings.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	DebugLines bool
}

// Renderer implements frame.Renderer.
type Renderer struct {
	config Config

	instanced *shader.Program
	lines     *shader.Program

	vao     uint32
	lineVAO uint32
	lineVBO uint32

	capture *target

	// materials reported missing, so each is logged once
	missing map[assets.MaterialID]bool
	log     *zap.Logger
}

// New creates the renderer. The GL context must be current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config:  cfg,
		missing: make(map[assets.MaterialID]bool),
		log:     logger.Named("renderer"),
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var err error
	if r.instanced, err = shader.Compile("instanced", instancedVert, instancedFrag); err != nil {
		return nil, err
	}
	if r.lines, err = shader.Compile("line", lineVert, lineFrag); err != nil {
		r.instanced.Delete()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	r.setupLineVAO()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// SetDebugLines toggles the line pass.
func (r *Renderer) SetDebugLines(on bool) {
	r.config.DebugLines = on
}

// Render clears the frame and draws every batch, then the debug lines.
func (r *Renderer) Render(ctx *frame.Context) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.instanced.Use()
	gl.UniformMatrix4fv(r.instanced.Uniform("uViewProj"), 1, false, ctx.ViewProj.Ptr())
	gl.Uniform1i(r.instanced.Uniform("uTexture"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.vao)

	if ctx.Arena != nil {
		ctx.Arena.Each(func(h arena.Handle, e arena.Entry) {
			if e.Count == 0 {
				return
			}
			switch m := e.Mesh.(type) {
			case *arena.ModelMesh:
				for _, sub := range m.Meshes {
					r.drawMesh(ctx.Assets, sub, sub.Material, e)
				}
			case *arena.CustomMesh:
				r.drawMesh(ctx.Assets, m.GPUMesh, m.Material, e)
			case *arena.SharedPrimitive:
				r.drawMesh(ctx.Assets, *m.Primitive, m.Material, e)
			}
		})
	}
	gl.BindVertexArray(0)

	if r.config.DebugLines && ctx.Lines != nil && ctx.Lines.Len() > 0 {
		r.drawLines(ctx)
	}

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", errCode)
	}
	return nil
}

func (r *Renderer) bindMaterial(srv *assets.Server, id assets.MaterialID) {
	var tex uint32
	if srv != nil {
		if mat, ok := srv.Material(id); ok {
			tex = mat.Texture.ID
		} else if !r.missing[id] {
			r.missing[id] = true
			r.log.Warn("material not found, drawing untextured", zap.Int("material", int(id)))
		}
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

// drawMesh binds one mesh and the batch's instance buffer and issues an
// instanced draw for the first e.Count rows.
func (r *Renderer) drawMesh(srv *assets.Server, m arena.GPUMesh, material assets.MaterialID, e arena.Entry) {
	r.bindMaterial(srv, material)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.Vertices.ID)
	stride := int32(mesh.VertexSize)
	gl.VertexAttribPointer(attrPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(mesh.OffsetPosition))
	gl.EnableVertexAttribArray(attrPosition)
	gl.VertexAttribDivisor(attrPosition, 0)
	gl.VertexAttribPointer(attrTexCoords, 2, gl.FLOAT, false, stride, gl.PtrOffset(mesh.OffsetTexCoords))
	gl.EnableVertexAttribArray(attrTexCoords)
	gl.VertexAttribDivisor(attrTexCoords, 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, e.Instances.ID)
	stride = int32(instance.RawSize)
	for col := uint32(0); col < 4; col++ {
		loc := attrModel + col
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, stride, gl.PtrOffset(instance.OffsetModel+int(col)*16))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.VertexAttribPointer(attrColor, 4, gl.FLOAT, false, stride, gl.PtrOffset(instance.OffsetColor))
	gl.EnableVertexAttribArray(attrColor)
	gl.VertexAttribDivisor(attrColor, 1)
	gl.VertexAttribIPointer(attrWorldSpace, 1, gl.UNSIGNED_INT, stride, gl.PtrOffset(instance.OffsetWorldSpace))
	gl.EnableVertexAttribArray(attrWorldSpace)
	gl.VertexAttribDivisor(attrWorldSpace, 1)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.Indices.ID)
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(m.NumElements), gl.UNSIGNED_INT, nil, int32(e.Count))
}

func (r *Renderer) setupLineVAO() {
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	stride := int32(debug.LineVertexSize)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) drawLines(ctx *frame.Context) {
	data := debug.Bytes(ctx.Lines.Vertices())

	r.lines.Use()
	gl.UniformMatrix4fv(r.lines.Uniform("uViewProj"), 1, false, ctx.ViewProj.Ptr())

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data), unsafe.Pointer(&data[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(ctx.Lines.Len()))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Close frees GL objects owned by the renderer.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteVertexArrays(1, &r.lineVAO)
	gl.DeleteBuffers(1, &r.lineVBO)
	if r.capture != nil {
		r.capture.destroy()
	}
	r.instanced.Delete()
	r.lines.Delete()
}

var _ frame.Renderer = (*Renderer)(nil)
