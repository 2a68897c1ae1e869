// Package source loads scene graphs from files on disk, picking a reader by
// file extension.
package source

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/blendexport/internal/source/gltfscene"
	"github.com/Faultbox/blendexport/internal/source/manifest"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// ErrUnsupported is returned for files no reader handles.
var ErrUnsupported = errors.New("unsupported scene format")

// Format names a scene file format.
type Format string

const (
	FormatManifest Format = "manifest"
	FormatGLTF     Format = "gltf"
)

// Detect maps a path's extension to its format.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatManifest, nil
	case ".gltf", ".glb":
		return FormatGLTF, nil
	}
	return "", errors.Wrapf(ErrUnsupported, "%s", path)
}

// Load reads the scene at path.
func Load(path string) (*scene.Scene, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatGLTF:
		return gltfscene.Load(path)
	default:
		return manifest.Load(path)
	}
}
