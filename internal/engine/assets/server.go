// Package assets loads materials and models from the asset build directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/gpu"
	"github.com/Faultbox/batchforge/internal/logger"
)

// Builtin asset names are resolved without touching the filesystem.
const (
	BuiltinPrefix  = "builtin:"
	BuiltinWhite   = BuiltinPrefix + "white"
	BuiltinChecker = BuiltinPrefix + "checker"
	BuiltinCube    = BuiltinPrefix + "cube"
	BuiltinQuad    = BuiltinPrefix + "quad"
)

// MaterialID indexes the server's material table.
type MaterialID int

// Material is a compiled texture plus its sampling mode.
type Material struct {
	Name    string
	Texture gpu.Texture
	Filter  gpu.Filter
}

type materialKey struct {
	path   string
	filter gpu.Filter
}

// Server resolves asset paths against one or more roots and owns the
// material table.
type Server struct {
	roots  []string
	cache  *Cache
	device gpu.TextureUploader

	materials []Material
	byKey     map[materialKey]MaterialID
	models    map[string]*Model

	mu  sync.RWMutex
	log *zap.Logger
}

// NewServer creates a server rooted at buildPath.
func NewServer(buildPath string, device gpu.TextureUploader) *Server {
	s := &Server{
		cache:  NewCache(),
		device: device,
		byKey:  make(map[materialKey]MaterialID),
		models: make(map[string]*Model),
		log:    logger.Named("assets"),
	}
	if buildPath != "" {
		s.roots = append(s.roots, buildPath)
	}
	return s
}

// AddRoot adds a search root. Roots are searched last added first.
func (s *Server) AddRoot(dir string) {
	s.mu.Lock()
	s.roots = append(s.roots, dir)
	s.mu.Unlock()
}

// Read returns the bytes of an asset file, using the cache when possible.
func (s *Server) Read(path string) ([]byte, error) {
	if data, ok := s.cache.Get(path); ok {
		return data, nil
	}

	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.roots) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(s.roots[i], rel))
		if err == nil {
			s.cache.Set(path, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
}

// Material returns a compiled material.
func (s *Server) Material(id MaterialID) (Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.materials) {
		return Material{}, false
	}
	return s.materials[id], true
}

// Materials returns how many materials have been compiled.
func (s *Server) Materials() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.materials)
}

// Close releases every texture and forgets cached files and models.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.materials {
		s.device.DestroyTexture(m.Texture)
	}
	s.materials = nil
	s.byKey = make(map[materialKey]MaterialID)
	s.models = make(map[string]*Model)
	s.cache.Clear()
}

func isBuiltin(path string) bool {
	return strings.HasPrefix(path, BuiltinPrefix)
}
