package assets

import (
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/engine/texture"
	"github.com/Faultbox/batchforge/internal/gpu"
)

// CompileMaterial decodes the texture at path, uploads it and returns its
// table index. Compiling the same path and filter twice returns the same id.
func (s *Server) CompileMaterial(path string, filter gpu.Filter) (MaterialID, error) {
	key := materialKey{path: path, filter: filter}

	s.mu.RLock()
	id, ok := s.byKey[key]
	s.mu.RUnlock()
	if ok {
		return id, nil
	}

	img, err := s.decodeTexture(path)
	if err != nil {
		return 0, &AssetLoadError{Kind: "material", Path: path, Err: err}
	}
	tex, err := s.device.CreateTexture(path, img, filter)
	if err != nil {
		return 0, &AssetLoadError{Kind: "material", Path: path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[key]; ok {
		s.device.DestroyTexture(tex)
		return id, nil
	}
	id = MaterialID(len(s.materials))
	s.materials = append(s.materials, Material{Name: path, Texture: tex, Filter: filter})
	s.byKey[key] = id

	s.log.Debug("material compiled",
		zap.String("path", path),
		zap.Int("id", int(id)),
		zap.Stringer("filter", filter))
	return id, nil
}

// CompileMaterials compiles each path in order. It stops at the first failure.
func (s *Server) CompileMaterials(paths []string, filter gpu.Filter) ([]MaterialID, error) {
	ids := make([]MaterialID, 0, len(paths))
	for _, p := range paths {
		id, err := s.CompileMaterial(p, filter)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) decodeTexture(path string) (*image.RGBA, error) {
	switch path {
	case BuiltinWhite:
		return texture.Solid(1, 1, color.RGBA{255, 255, 255, 255}), nil
	case BuiltinChecker:
		return texture.Checker(64, 8, color.RGBA{230, 230, 230, 255}, color.RGBA{60, 60, 60, 255}), nil
	}
	if isBuiltin(path) {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}

	data, err := s.Read(path)
	if err != nil {
		return nil, err
	}
	return texture.Decode(path, data)
}
