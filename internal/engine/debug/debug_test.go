package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/batchforge/internal/engine/collision"
	"github.com/Faultbox/batchforge/pkg/math"
)

var red = [4]float32{1, 0, 0, 1}

func TestLineVertexLayout(t *testing.T) {
	if LineVertexSize != 28 {
		t.Errorf("LineVertexSize = %d, want 28", LineVertexSize)
	}
}

func TestAddRay(t *testing.T) {
	var l Lines
	l.AddRay(collision.NewRay(math.Vec3{X: 1}, math.Vec3{Y: 1}), 5, red)

	vs := l.Vertices()
	if len(vs) != 2 {
		t.Fatalf("got %d vertices", len(vs))
	}
	if vs[0].Position != [3]float32{1, 0, 0} || vs[1].Position != [3]float32{1, 5, 0} {
		t.Errorf("segment = %v -> %v", vs[0].Position, vs[1].Position)
	}
	if vs[1].Color != red {
		t.Errorf("color = %v", vs[1].Color)
	}
}

func TestAddOBB(t *testing.T) {
	var l Lines
	l.AddOBB(collision.NewOBB(2, 2, 2), math.Translate(10, 0, 0), red)

	if l.Len() != BoxEdgeVertices {
		t.Fatalf("got %d vertices, want %d", l.Len(), BoxEdgeVertices)
	}
	for i, v := range l.Vertices() {
		x := v.Position[0]
		if x != 9 && x != 11 {
			t.Errorf("vertex %d x = %v, want 9 or 11", i, x)
		}
	}

	// every edge is axis-aligned and 2 long
	vs := l.Vertices()
	for i := 0; i < len(vs); i += 2 {
		a, b := vs[i].Position, vs[i+1].Position
		d := math.Vec3{X: a[0] - b[0], Y: a[1] - b[1], Z: a[2] - b[2]}.Length()
		if d < 1.999 || d > 2.001 {
			t.Errorf("edge %d has length %v", i/2, d)
		}
	}
}

func TestReset(t *testing.T) {
	var l Lines
	l.Add(math.Vec3{}, math.Vec3{X: 1}, red)
	l.Reset()
	if l.Len() != 0 || Bytes(l.Vertices()) != nil {
		t.Error("Reset left vertices behind")
	}
}

func TestSavePixels(t *testing.T) {
	dir := t.TempDir()
	s := NewScreenshots(dir, "shot")
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2, bottom row red, top row blue
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	path, err := s.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}
	if filepath.Base(path) != "shot_2024-01-02_03-04-05.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
}

func TestSavePixelsSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "x")
	if _, err := s.SavePixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size error")
	}
}
