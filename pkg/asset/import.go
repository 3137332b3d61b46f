package asset

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Import errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrNoRoot            = errors.New("scene has no root node")
)

// Import parses the model file at path and applies the requested
// post-processing. The returned scene never has a nil Root when err is nil,
// but it may be flagged Incomplete.
func Import(path string, flags Flags) (*Scene, error) {
	var (
		scene *Scene
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		scene, err = importGLTF(path)
	case ".obj":
		scene, err = importOBJ(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, err
	}
	if scene.Root == nil {
		return nil, errors.Wrapf(ErrNoRoot, "%s", filepath.Base(path))
	}

	PostProcess(scene, flags)
	return scene, nil
}

// PostProcess applies flags to an imported scene in place.
func PostProcess(scene *Scene, flags Flags) {
	for _, mesh := range scene.Meshes {
		if flags.Has(Triangulate) {
			mesh.Faces = triangulate(mesh.Faces)
		}
		if flags.Has(FlipUVs) {
			for i := range mesh.TexCoords {
				mesh.TexCoords[i][1] = 1 - mesh.TexCoords[i][1]
			}
		}
	}
}

// triangulate fans every polygon around its first corner.
// Points and lines are dropped.
func triangulate(faces []Face) []Face {
	out := make([]Face, 0, len(faces))
	for _, f := range faces {
		switch {
		case len(f) < 3:
			continue
		case len(f) == 3:
			out = append(out, f)
		default:
			for i := 1; i+1 < len(f); i++ {
				out = append(out, Face{f[0], f[i], f[i+1]})
			}
		}
	}
	return out
}
