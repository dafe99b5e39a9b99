// Package instance defines per-object transform state and its GPU row layout.
package instance

import (
	"unsafe"

	"github.com/Faultbox/batchforge/internal/engine/slab"
	"github.com/Faultbox/batchforge/pkg/math"
)

// White is the default tint.
var White = [4]float32{1, 1, 1, 1}

// Instance is one drawable copy of a batch's mesh.
type Instance struct {
	Position math.Vec3
	Rotation math.Quat
	Color    [4]float32
	// Enabled instances are uploaded; disabled ones are skipped.
	Enabled bool
	// WorldSpace instances use the camera transform. Others are drawn in
	// normalized screen coordinates.
	WorldSpace bool
	// Handle is the batch this instance was uploaded into. Zero until a
	// create call fills it in.
	Handle slab.Handle
}

// New returns an enabled white world-space instance at the origin.
func New() Instance {
	return Instance{
		Rotation:   math.QuatIdentity(),
		Color:      White,
		Enabled:    true,
		WorldSpace: true,
	}
}

// At returns a default instance at pos.
func At(pos math.Vec3) Instance {
	inst := New()
	inst.Position = pos
	return inst
}

// WithColor returns a default instance at pos tinted c.
func WithColor(pos math.Vec3, c [4]float32) Instance {
	inst := At(pos)
	inst.Color = c
	return inst
}

// Pos returns the position.
func (i Instance) Pos() math.Vec3 {
	return i.Position
}

// Pos2D returns the x and y of the position.
func (i Instance) Pos2D() math.Vec2 {
	return i.Position.XY()
}

// Model returns the rotation-then-translation matrix.
func (i Instance) Model() math.Mat4 {
	return math.FromRotationTranslation(i.Rotation, i.Position)
}

// Raw is the per-instance vertex row: a column-major model matrix, a color
// and a world-space flag. It is tightly packed at 84 bytes.
type Raw struct {
	Model      [16]float32
	Color      [4]float32
	WorldSpace uint32
}

// RawSize is the byte stride of one Raw row.
const RawSize = int(unsafe.Sizeof(Raw{}))

// Attribute offsets within a Raw row.
const (
	OffsetModel      = 0
	OffsetColor      = 64
	OffsetWorldSpace = 80
)

// ToRaw converts the instance to its GPU row. The second result is false
// for disabled instances, which must not be uploaded.
func (i Instance) ToRaw() (Raw, bool) {
	if !i.Enabled {
		return Raw{}, false
	}
	raw := Raw{
		Model: i.Model(),
		Color: i.Color,
	}
	if i.WorldSpace {
		raw.WorldSpace = 1
	}
	return raw, true
}

// Collect converts instances to rows, dropping disabled ones. Order is kept.
func Collect(instances []Instance) []Raw {
	raws := make([]Raw, 0, len(instances))
	for _, inst := range instances {
		if raw, ok := inst.ToRaw(); ok {
			raws = append(raws, raw)
		}
	}
	return raws
}

// Bytes views rows as bytes without copying.
func Bytes(raws []Raw) []byte {
	if len(raws) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&raws[0])), len(raws)*RawSize)
}

// Bind returns a copy of instances with Handle set to h.
func Bind(instances []Instance, h slab.Handle) []Instance {
	out := make([]Instance, len(instances))
	for i, inst := range instances {
		inst.Handle = h
		out[i] = inst
	}
	return out
}
