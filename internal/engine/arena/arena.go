// Package arena owns instance batches: GPU instance buffers plus the mesh
// each one draws, addressed by generation-tagged handles.
package arena

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/engine/assets"
	"github.com/Faultbox/batchforge/internal/engine/instance"
	"github.com/Faultbox/batchforge/internal/engine/mesh"
	"github.com/Faultbox/batchforge/internal/engine/slab"
	"github.com/Faultbox/batchforge/internal/gpu"
	"github.com/Faultbox/batchforge/internal/logger"
)

// Handle identifies a batch. A handle stays valid until its batch is
// evicted, after which it never resolves again.
type Handle = slab.Handle

var (
	ErrInvalidHandle    = errors.New("arena: invalid handle")
	ErrStaticBuffer     = errors.New("arena: batch was not created dynamic")
	ErrCapacityExceeded = errors.New("arena: update exceeds batch capacity")
	ErrEmptyMesh        = errors.New("arena: mesh has no geometry")
)

// Entry is one batch.
type Entry struct {
	// Instances holds Capacity rows; the first Count are drawn.
	Instances gpu.Buffer
	Mesh      MeshRef
	Count     uint32
	Capacity  uint32
	Dynamic   bool
}

// ModelSource loads models by path.
type ModelSource interface {
	LoadModel(path string) (*assets.Model, error)
}

// Store is the batch arena. Not safe for concurrent use; the frame driver
// calls it from the render thread.
type Store struct {
	dev     gpu.Uploader
	models  ModelSource
	batches *slab.Slab[Entry]
	quad    *GPUMesh
	log     *zap.Logger
}

// New creates an empty store. models may be nil if model batches are never
// created.
func New(dev gpu.Uploader, models ModelSource) *Store {
	return &Store{
		dev:     dev,
		models:  models,
		batches: slab.New[Entry](),
		log:     logger.Named("arena"),
	}
}

// CreateBatch uploads custom geometry drawn with material. It returns the
// handle and a copy of instances with Handle filled in. Disabled instances
// take up capacity but are not drawn.
func (s *Store) CreateBatch(data mesh.Data, material assets.MaterialID, instances []instance.Instance, dynamic bool) (Handle, []instance.Instance, error) {
	m, err := s.upload("custom", data, material)
	if err != nil {
		return 0, nil, err
	}
	h, err := s.insert(&CustomMesh{GPUMesh: m}, instances, dynamic, "custom")
	if err != nil {
		s.destroyMesh(m)
		return 0, nil, err
	}
	return h, instance.Bind(instances, h), nil
}

// CreateSpriteBatch draws instances with the shared unit quad.
func (s *Store) CreateSpriteBatch(material assets.MaterialID, instances []instance.Instance, dynamic bool) (Handle, []instance.Instance, error) {
	if s.quad == nil {
		q, err := s.upload("quad", mesh.UnitQuad(), material)
		if err != nil {
			return 0, nil, err
		}
		s.quad = &q
	}
	h, err := s.insert(&SharedPrimitive{Primitive: s.quad, Material: material}, instances, dynamic, "sprite")
	if err != nil {
		return 0, nil, err
	}
	return h, instance.Bind(instances, h), nil
}

// CreateModelBatch loads the model at path and uploads its meshes.
func (s *Store) CreateModelBatch(path string, instances []instance.Instance, dynamic bool) (Handle, []instance.Instance, error) {
	if s.models == nil {
		return 0, nil, fmt.Errorf("model batch %s: no model source", path)
	}
	model, err := s.models.LoadModel(path)
	if err != nil {
		return 0, nil, err
	}

	mm := &ModelMesh{Name: model.Name}
	for _, sub := range model.Meshes {
		m, err := s.upload(sub.Name, sub.Data, sub.Material)
		if err != nil {
			s.destroyMeshRef(mm)
			return 0, nil, fmt.Errorf("model batch %s: %w", path, err)
		}
		mm.Meshes = append(mm.Meshes, m)
	}

	h, err := s.insert(mm, instances, dynamic, "model:"+model.Name)
	if err != nil {
		s.destroyMeshRef(mm)
		return 0, nil, err
	}
	return h, instance.Bind(instances, h), nil
}

func (s *Store) upload(label string, data mesh.Data, material assets.MaterialID) (GPUMesh, error) {
	if data.Empty() {
		return GPUMesh{}, fmt.Errorf("upload %s: %w", label, ErrEmptyMesh)
	}
	vb, err := s.dev.CreateBuffer(label+" vertices", mesh.VertexBytes(data.Vertices), gpu.UsageVertex)
	if err != nil {
		return GPUMesh{}, fmt.Errorf("upload %s: %w", label, err)
	}
	ib, err := s.dev.CreateBuffer(label+" indices", mesh.IndexBytes(data.Indices), gpu.UsageIndex)
	if err != nil {
		s.dev.DestroyBuffer(vb)
		return GPUMesh{}, fmt.Errorf("upload %s: %w", label, err)
	}
	return GPUMesh{
		Vertices:    vb,
		Indices:     ib,
		NumElements: uint32(len(data.Indices)),
		Material:    material,
	}, nil
}

// insert creates the instance buffer and stores the entry. The buffer is
// sized for every instance; enabled ones are packed at the front.
func (s *Store) insert(ref MeshRef, instances []instance.Instance, dynamic bool, label string) (Handle, error) {
	raws := instance.Collect(instances)
	data := make([]byte, len(instances)*instance.RawSize)
	copy(data, instance.Bytes(raws))

	usage := gpu.UsageVertex
	if dynamic {
		usage |= gpu.UsageCopyDst
	}
	buf, err := s.dev.CreateBuffer(label+" instances", data, usage)
	if err != nil {
		return 0, fmt.Errorf("create %s batch: %w", label, err)
	}

	h := s.batches.Insert(Entry{
		Instances: buf,
		Mesh:      ref,
		Count:     uint32(len(raws)),
		Capacity:  uint32(len(instances)),
		Dynamic:   dynamic,
	})

	s.log.Debug("batch created",
		zap.Stringer("handle", h),
		zap.Stringer("mesh", ref.Kind()),
		zap.String("label", label),
		zap.Int("instances", len(raws)),
		zap.Int("capacity", len(instances)),
		zap.Bool("dynamic", dynamic))
	return h, nil
}

// Update replaces a dynamic batch's drawn rows with raws, writing from the
// start of the buffer.
func (s *Store) Update(h Handle, raws []instance.Raw) error {
	e, ok := s.batches.Get(h)
	if !ok {
		return fmt.Errorf("update %s: %w", h, ErrInvalidHandle)
	}
	if !e.Dynamic {
		return fmt.Errorf("update %s: %w", h, ErrStaticBuffer)
	}
	if len(raws) > int(e.Capacity) {
		return fmt.Errorf("update %s: %d rows for capacity %d: %w", h, len(raws), e.Capacity, ErrCapacityExceeded)
	}
	if err := s.dev.WriteBuffer(e.Instances, 0, instance.Bytes(raws)); err != nil {
		return fmt.Errorf("update %s: %w", h, err)
	}
	e.Count = uint32(len(raws))
	return nil
}

// UpdateInstances converts instances and calls Update.
func (s *Store) UpdateInstances(h Handle, instances []instance.Instance) error {
	return s.Update(h, instance.Collect(instances))
}

// Get returns a copy of the entry for h.
func (s *Store) Get(h Handle) (Entry, error) {
	e, ok := s.batches.Get(h)
	if !ok {
		return Entry{}, fmt.Errorf("get %s: %w", h, ErrInvalidHandle)
	}
	return *e, nil
}

// Contains reports whether h refers to a live batch.
func (s *Store) Contains(h Handle) bool {
	return s.batches.Contains(h)
}

// Evict frees a batch and the GPU resources it owns.
func (s *Store) Evict(h Handle) error {
	e, ok := s.batches.Remove(h)
	if !ok {
		return fmt.Errorf("evict %s: %w", h, ErrInvalidHandle)
	}
	s.destroyEntry(e)
	s.log.Debug("batch evicted", zap.Stringer("handle", h))
	return nil
}

// EvictAll frees every batch. The shared quad survives.
func (s *Store) EvictAll() {
	n := s.batches.Len()
	s.batches.Each(func(_ Handle, e *Entry) {
		s.destroyEntry(*e)
	})
	s.batches.Clear()
	s.log.Debug("all batches evicted", zap.Int("count", n))
}

// Close evicts everything and frees the shared primitives.
func (s *Store) Close() {
	s.EvictAll()
	if s.quad != nil {
		s.destroyMesh(*s.quad)
		s.quad = nil
	}
}

// Each calls fn for every live batch. Order is unspecified. fn must not
// create or evict batches.
func (s *Store) Each(fn func(Handle, Entry)) {
	s.batches.Each(func(h Handle, e *Entry) {
		fn(h, *e)
	})
}

// Len returns the number of live batches.
func (s *Store) Len() int {
	return s.batches.Len()
}

func (s *Store) destroyEntry(e Entry) {
	s.dev.DestroyBuffer(e.Instances)
	s.destroyMeshRef(e.Mesh)
}

func (s *Store) destroyMeshRef(ref MeshRef) {
	switch m := ref.(type) {
	case *ModelMesh:
		for _, sub := range m.Meshes {
			s.destroyMesh(sub)
		}
	case *CustomMesh:
		s.destroyMesh(m.GPUMesh)
	case *SharedPrimitive:
		// owned by the store
	}
}

func (s *Store) destroyMesh(m GPUMesh) {
	s.dev.DestroyBuffer(m.Vertices)
	s.dev.DestroyBuffer(m.Indices)
}
