package gpu

import (
	"fmt"
	"image"
	"sync"
)

// MemoryUploader keeps buffers and textures in host memory. It enforces the
// same usage and range rules as a real device.
type MemoryUploader struct {
	mu       sync.Mutex
	nextID   uint32
	buffers  map[uint32][]byte
	textures map[uint32]*image.RGBA
	writes   int
}

// NewMemoryUploader creates an empty in-memory device.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{
		buffers:  make(map[uint32][]byte),
		textures: make(map[uint32]*image.RGBA),
	}
}

func (m *MemoryUploader) CreateBuffer(label string, data []byte, usage Usage) (Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.buffers[m.nextID] = append([]byte(nil), data...)
	return Buffer{ID: m.nextID, Size: len(data), Usage: usage, Label: label}, nil
}

func (m *MemoryUploader) WriteBuffer(buf Buffer, offset int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, ok := m.buffers[buf.ID]
	if !ok {
		return fmt.Errorf("write %q: %w", buf.Label, ErrUnknownBuffer)
	}
	if err := checkWrite(buf, offset, data); err != nil {
		return fmt.Errorf("write %q: %w", buf.Label, err)
	}
	copy(mem[offset:], data)
	m.writes++
	return nil
}

func (m *MemoryUploader) DestroyBuffer(buf Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, buf.ID)
}

func (m *MemoryUploader) CreateTexture(label string, img *image.RGBA, filter Filter) (Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return Texture{}, fmt.Errorf("texture %q: %w", label, ErrEmptyTexture)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.textures[m.nextID] = img
	b := img.Bounds()
	return Texture{ID: m.nextID, Width: b.Dx(), Height: b.Dy(), Filter: filter, Label: label}, nil
}

func (m *MemoryUploader) DestroyTexture(tex Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, tex.ID)
}

// Contents returns a copy of a buffer's bytes.
func (m *MemoryUploader) Contents(buf Buffer) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.buffers[buf.ID]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), mem...), true
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (m *MemoryUploader) LiveBuffers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}

// LiveTextures returns the number of textures not yet destroyed.
func (m *MemoryUploader) LiveTextures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

// Writes returns how many WriteBuffer calls succeeded.
func (m *MemoryUploader) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
