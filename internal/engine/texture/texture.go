// Package texture resolves material texture references into uploaded
// images, sharing uploads across a model through a Cache.
package texture

import (
	"errors"
	"fmt"

	"github.com/Faultbox/assetview/pkg/asset"
)

// Kind is the semantic category of a texture slot.
type Kind int

const (
	Diffuse Kind = iota
	Specular
	Normal
	Height
)

// Kinds lists the categories in the order a mesh resolves them.
var Kinds = [...]Kind{Diffuse, Specular, Normal, Height}

var kindNames = [...]string{"diffuse", "specular", "normal", "height"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Uniform returns the sampler uniform prefix for the kind, for example
// "texture_diffuse". Shaders number samplers from 1.
func (k Kind) Uniform() string {
	return "texture_" + k.String()
}

// Source returns the material slot the kind reads from.
func (k Kind) Source() asset.TextureType {
	switch k {
	case Specular:
		return asset.TextureSpecular
	case Normal:
		return asset.TextureNormal
	case Height:
		return asset.TextureHeight
	default:
		return asset.TextureDiffuse
	}
}

// Slot is a resolved texture reference of one mesh. The handle is shared
// with every other slot of the model using the same source.
type Slot struct {
	Handle uint32
	Kind   Kind
	Source string
}

// Sentinel errors wrapped by LoadError.
var (
	ErrDecode            = errors.New("texture decode failed")
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)

// LoadError describes a texture reference that could not be resolved.
// It is recoverable: the slot is dropped and loading continues.
type LoadError struct {
	Source string
	Kind   Kind
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s texture %q: %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
