package assets

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/batchforge/internal/engine/mesh"
	"github.com/Faultbox/batchforge/internal/gpu"
)

// MeshData is one sub-mesh of a model with its material.
type MeshData struct {
	Name string
	mesh.Data
	Material MaterialID
}

// Model is a loaded model: meshes plus the materials they reference.
type Model struct {
	Name      string
	Meshes    []MeshData
	Materials []MaterialID
}

// manifest is the on-disk model description.
type manifest struct {
	Name   string         `yaml:"name"`
	Meshes []manifestMesh `yaml:"meshes"`
}

type manifestMesh struct {
	Name      string           `yaml:"name"`
	Primitive string           `yaml:"primitive"`
	Size      float32          `yaml:"size"`
	Material  string           `yaml:"material"`
	Filter    string           `yaml:"filter"`
	Vertices  []manifestVertex `yaml:"vertices"`
	Indices   []uint32         `yaml:"indices"`
}

type manifestVertex struct {
	Position [3]float32 `yaml:"position"`
	UV       [2]float32 `yaml:"uv"`
}

// LoadModel loads a model manifest and compiles its materials. Results are
// cached by path. Material paths inside a manifest are relative to it.
func (s *Server) LoadModel(p string) (*Model, error) {
	s.mu.RLock()
	m, ok := s.models[p]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := s.loadModel(p)
	if err != nil {
		return nil, &AssetLoadError{Kind: "model", Path: p, Err: err}
	}

	s.mu.Lock()
	s.models[p] = m
	s.mu.Unlock()

	s.log.Debug("model loaded",
		zap.String("path", p),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(m.Materials)))
	return m, nil
}

func (s *Server) loadModel(p string) (*Model, error) {
	var man manifest
	switch {
	case p == BuiltinCube:
		man = manifest{Name: "cube", Meshes: []manifestMesh{{Name: "cube", Primitive: "cube", Size: 2}}}
	case p == BuiltinQuad:
		man = manifest{Name: "quad", Meshes: []manifestMesh{{Name: "quad", Primitive: "quad", Size: 1}}}
	case isBuiltin(p):
		return nil, fmt.Errorf("%q: %w", p, ErrNotFound)
	default:
		ext := strings.ToLower(path.Ext(p))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("%w: model %q", ErrUnsupportedFormat, ext)
		}
		data, err := s.Read(p)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &man); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	if len(man.Meshes) == 0 {
		return nil, fmt.Errorf("%w: model has no meshes", ErrDecode)
	}

	model := &Model{Name: man.Name}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	seen := make(map[MaterialID]bool)

	for i, mm := range man.Meshes {
		data, err := mm.build()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}

		matPath := mm.Material
		switch {
		case matPath == "":
			matPath = BuiltinWhite
		case !isBuiltin(matPath) && !isBuiltin(p):
			matPath = path.Join(path.Dir(p), matPath)
		}
		mat, err := s.CompileMaterial(matPath, gpu.ParseFilter(mm.Filter))
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}

		name := mm.Name
		if name == "" {
			name = fmt.Sprintf("%s.%d", model.Name, i)
		}
		model.Meshes = append(model.Meshes, MeshData{Name: name, Data: data, Material: mat})
		if !seen[mat] {
			seen[mat] = true
			model.Materials = append(model.Materials, mat)
		}
	}
	return model, nil
}

func (mm manifestMesh) build() (mesh.Data, error) {
	size := mm.Size
	if size == 0 {
		size = 1
	}
	switch mm.Primitive {
	case "cube":
		return mesh.Cube(size), nil
	case "quad":
		return mesh.Rect(size/2, size/2), nil
	case "":
	default:
		return mesh.Data{}, fmt.Errorf("%w: primitive %q", ErrUnsupportedFormat, mm.Primitive)
	}

	d := mesh.Data{
		Vertices: make([]mesh.Vertex, len(mm.Vertices)),
		Indices:  mm.Indices,
	}
	for i, v := range mm.Vertices {
		d.Vertices[i] = mesh.Vertex{Position: v.Position, TexCoords: v.UV}
	}
	if d.Empty() {
		return mesh.Data{}, fmt.Errorf("%w: mesh has no geometry", ErrDecode)
	}
	if len(d.Indices)%3 != 0 {
		return mesh.Data{}, fmt.Errorf("%w: %d indices is not a triangle list", ErrDecode, len(d.Indices))
	}
	for _, idx := range d.Indices {
		if int(idx) >= len(d.Vertices) {
			return mesh.Data{}, fmt.Errorf("%w: index %d out of range", ErrDecode, idx)
		}
	}
	return d, nil
}
