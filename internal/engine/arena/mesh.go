package arena

import (
	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/gpu"
)

// GPUMesh is an uploaded indexed triangle list.
type GPUMesh struct {
	Vertices    gpu.Buffer
	Indices     gpu.Buffer
	NumElements uint32
	Material    assets.MaterialID
}

// MeshKind tags the MeshRef variants.
type MeshKind int

const (
	KindModel MeshKind = iota
	KindCustom
	KindSharedPrimitive
)

func (k MeshKind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindCustom:
		return "custom"
	case KindSharedPrimitive:
		return "shared-primitive"
	}
	return "unknown"
}

// MeshRef is the geometry a batch draws. The set of variants is closed:
// *ModelMesh, *CustomMesh and *SharedPrimitive.
type MeshRef interface {
	Kind() MeshKind
	meshRef()
}

// ModelMesh is a loaded model. Each sub-mesh carries its own material.
type ModelMesh struct {
	Name   string
	Meshes []GPUMesh
}

// CustomMesh is geometry supplied by the caller with one material.
type CustomMesh struct {
	GPUMesh
}

// SharedPrimitive points at geometry owned by the store, such as the sprite
// quad, drawn with the batch's own material.
type SharedPrimitive struct {
	Primitive *GPUMesh
	Material  assets.MaterialID
}

func (*ModelMesh) Kind() MeshKind       { return KindModel }
func (*CustomMesh) Kind() MeshKind      { return KindCustom }
func (*SharedPrimitive) Kind() MeshKind { return KindSharedPrimitive }

func (*ModelMesh) meshRef()       {}
func (*CustomMesh) meshRef()      {}
func (*SharedPrimitive) meshRef() {}
