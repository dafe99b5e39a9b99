package assets

import (
	"errors"
	"fmt"

	"github.com/Faultbox/batchforge/internal/engine/texture"
)

var (
	ErrNotFound          = errors.New("asset not found")
	ErrInvalidPath       = errors.New("asset path escapes the asset roots")
	ErrUnsupportedFormat = texture.ErrUnsupportedFormat
	ErrDecode            = texture.ErrDecode
)

// AssetLoadError reports a failed material or model load.
type AssetLoadError struct {
	Kind string // "material" or "model"
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
