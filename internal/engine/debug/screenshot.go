package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as timestamped PNG files.
type Screenshots struct {
	Dir    string
	Prefix string
	now    func() time.Time
}

// NewScreenshots creates a writer for dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would use.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.Prefix, s.now().Format("2006-01-02_15-04-05"))
	return filepath.Join(s.Dir, name)
}

// SavePixels writes bottom-up RGBA rows, as read back from GL, to a PNG.
func (s *Screenshots) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("screenshot: got %d bytes for %dx%d", len(pixels), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.Save(img)
}

// Save writes img to a new file and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("screenshot dir: %w", err)
		}
	}
	path := s.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("screenshot encode: %w", err)
	}
	return path, nil
}
