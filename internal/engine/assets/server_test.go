package assets

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/batchforge/internal/engine/texture"
	"github.com/Faultbox/batchforge/internal/gpu"
)

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, texture.Solid(4, 4, c)); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadSearchOrder(t *testing.T) {
	base, override := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(base, "a.txt"), []byte("base"))
	writeFile(t, filepath.Join(base, "b.txt"), []byte("only-base"))
	writeFile(t, filepath.Join(override, "a.txt"), []byte("override"))

	s := NewServer(base, gpu.NewMemoryUploader())
	s.AddRoot(override)

	if got, _ := s.Read("a.txt"); string(got) != "override" {
		t.Errorf("a.txt = %q, want override", got)
	}
	if got, _ := s.Read("b.txt"); string(got) != "only-base" {
		t.Errorf("b.txt = %q", got)
	}

	s.Read("a.txt")
	if hits, misses := s.cache.Stats(); hits != 1 || misses != 2 {
		t.Errorf("cache stats = %d hits, %d misses", hits, misses)
	}
}

func TestReadErrors(t *testing.T) {
	s := NewServer(t.TempDir(), gpu.NewMemoryUploader())

	if _, err := s.Read("missing.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing error = %v", err)
	}
	if _, err := s.Read("../outside.png"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("escape error = %v", err)
	}
}

func TestCompileMaterial(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), color.RGBA{255, 0, 0, 255})
	dev := gpu.NewMemoryUploader()
	s := NewServer(dir, dev)

	id, err := s.CompileMaterial("red.png", gpu.FilterNearest)
	if err != nil {
		t.Fatalf("CompileMaterial: %v", err)
	}
	mat, ok := s.Material(id)
	if !ok {
		t.Fatal("material not in table")
	}
	if mat.Filter != gpu.FilterNearest || mat.Texture.Width != 4 {
		t.Errorf("material = %+v", mat)
	}

	again, _ := s.CompileMaterial("red.png", gpu.FilterNearest)
	if again != id {
		t.Errorf("recompile returned %d, want %d", again, id)
	}
	linear, _ := s.CompileMaterial("red.png", gpu.FilterLinear)
	if linear == id {
		t.Error("different filter should get its own material")
	}
	if dev.LiveTextures() != 2 {
		t.Errorf("live textures = %d, want 2", dev.LiveTextures())
	}
}

func TestCompileMaterialErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.png"), []byte("garbage"))
	writeFile(t, filepath.Join(dir, "anim.gif"), []byte("GIF89a"))
	s := NewServer(dir, gpu.NewMemoryUploader())

	tests := []struct {
		path string
		want error
	}{
		{"nope.png", ErrNotFound},
		{"bad.png", ErrDecode},
		{"anim.gif", ErrUnsupportedFormat},
		{"builtin:nope", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := s.CompileMaterial(tt.path, gpu.FilterLinear)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var loadErr *AssetLoadError
			if !errors.As(err, &loadErr) || loadErr.Kind != "material" || loadErr.Path != tt.path {
				t.Errorf("error %v is not a material AssetLoadError for %s", err, tt.path)
			}
		})
	}
	if s.Materials() != 0 {
		t.Errorf("failed compiles added %d materials", s.Materials())
	}
}

func TestCompileMaterials(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.RGBA{1, 0, 0, 255})
	writePNG(t, filepath.Join(dir, "b.png"), color.RGBA{0, 1, 0, 255})
	s := NewServer(dir, gpu.NewMemoryUploader())

	ids, err := s.CompileMaterials([]string{"a.png", "b.png", BuiltinWhite}, gpu.FilterLinear)
	if err != nil {
		t.Fatalf("CompileMaterials: %v", err)
	}
	if len(ids) != 3 || ids[0] == ids[1] || ids[1] == ids[2] {
		t.Errorf("ids = %v", ids)
	}

	ids, err = s.CompileMaterials([]string{"a.png", "missing.png", "b.png"}, gpu.FilterLinear)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(ids) != 1 {
		t.Errorf("got %d ids before failure, want 1", len(ids))
	}
}

func TestClose(t *testing.T) {
	dev := gpu.NewMemoryUploader()
	s := NewServer("", dev)
	if _, err := s.CompileMaterial(BuiltinChecker, gpu.FilterNearest); err != nil {
		t.Fatal(err)
	}
	s.Close()
	if dev.LiveTextures() != 0 || s.Materials() != 0 {
		t.Errorf("textures=%d materials=%d after Close", dev.LiveTextures(), s.Materials())
	}
}
