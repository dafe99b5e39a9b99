package assets

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/Faultbox/batchforge/internal/gpu"
)

const crateManifest = `
name: crate
meshes:
  - name: body
    primitive: cube
    size: 2
    material: crate.png
    filter: nearest
  - name: lid
    material: crate.png
    filter: nearest
    vertices:
      - {position: [0, 0, 0], uv: [0, 0]}
      - {position: [1, 0, 0], uv: [1, 0]}
      - {position: [0, 1, 0], uv: [0, 1]}
    indices: [0, 1, 2]
  - name: label
    primitive: quad
`

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "models", "crate.png"), color.RGBA{120, 80, 40, 255})
	writeFile(t, filepath.Join(dir, "models", "crate.yaml"), []byte(crateManifest))
	s := NewServer(dir, gpu.NewMemoryUploader())

	m, err := s.LoadModel("models/crate.yaml")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.Name != "crate" || len(m.Meshes) != 3 {
		t.Fatalf("model = %s with %d meshes", m.Name, len(m.Meshes))
	}
	if len(m.Meshes[0].Vertices) != 24 {
		t.Errorf("body has %d vertices, want 24", len(m.Meshes[0].Vertices))
	}
	if got := m.Meshes[1].Vertices[1].Position; got != [3]float32{1, 0, 0} {
		t.Errorf("lid vertex 1 = %v", got)
	}
	if m.Meshes[0].Material != m.Meshes[1].Material {
		t.Error("meshes sharing a texture should share a material")
	}
	if len(m.Materials) != 2 {
		t.Errorf("materials = %v, want crate plus white", m.Materials)
	}
	mat, _ := s.Material(m.Meshes[0].Material)
	if mat.Name != "models/crate.png" || mat.Filter != gpu.FilterNearest {
		t.Errorf("material = %+v", mat)
	}

	again, _ := s.LoadModel("models/crate.yaml")
	if again != m {
		t.Error("second load should return the cached model")
	}
}

func TestLoadBuiltinModels(t *testing.T) {
	s := NewServer("", gpu.NewMemoryUploader())
	for _, name := range []string{BuiltinCube, BuiltinQuad} {
		m, err := s.LoadModel(name)
		if err != nil {
			t.Errorf("LoadModel(%s): %v", name, err)
			continue
		}
		if len(m.Meshes) != 1 || m.Meshes[0].Empty() {
			t.Errorf("%s: %+v", name, m)
		}
	}
}

func TestLoadModelErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty.yaml"), []byte("name: empty\n"))
	writeFile(t, filepath.Join(dir, "broken.yaml"), []byte("meshes: [\n"))
	writeFile(t, filepath.Join(dir, "badindex.yaml"), []byte(`
meshes:
  - vertices: [{position: [0, 0, 0]}]
    indices: [0, 1, 2]
`))
	writeFile(t, filepath.Join(dir, "sphere.yaml"), []byte("meshes: [{primitive: sphere}]\n"))
	writeFile(t, filepath.Join(dir, "notex.yaml"), []byte("meshes: [{primitive: cube, material: gone.png}]\n"))
	s := NewServer(dir, gpu.NewMemoryUploader())

	tests := []struct {
		path string
		want error
	}{
		{"missing.yaml", ErrNotFound},
		{"model.obj", ErrUnsupportedFormat},
		{"empty.yaml", ErrDecode},
		{"broken.yaml", ErrDecode},
		{"badindex.yaml", ErrDecode},
		{"sphere.yaml", ErrUnsupportedFormat},
		{"notex.yaml", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := s.LoadModel(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var loadErr *AssetLoadError
			if !errors.As(err, &loadErr) || loadErr.Kind != "model" {
				t.Errorf("error %v is not a model AssetLoadError", err)
			}
		})
	}
}
