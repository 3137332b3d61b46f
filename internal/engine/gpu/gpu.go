// Package gpu defines the graphics backend the model pipeline uploads to
// and draws with, plus an OpenGL and a headless implementation.
package gpu

import (
	"fmt"
	"math"
)

// Format is the pixel layout of an uploaded texture.
type Format int

const (
	FormatRed Format = iota + 1
	FormatRGB
	FormatRGBA
)

func (f Format) String() string {
	switch f {
	case FormatRed:
		return "RED"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForComponents maps a decoded component count to an upload format.
func FormatForComponents(n int) (Format, bool) {
	switch n {
	case 1:
		return FormatRed, true
	case 3:
		return FormatRGB, true
	case 4:
		return FormatRGBA, true
	}
	return 0, false
}

// TextureUpload is tightly packed 8-bit pixel data, rows top to bottom.
type TextureUpload struct {
	Width  int
	Height int
	Format Format
	Pix    []byte
}

// Validate reports whether Pix holds Width*Height pixels of Format.
func (up TextureUpload) Validate() error {
	c := componentsOf(up.Format)
	if c == 0 {
		return fmt.Errorf("unsupported texture format %v", up.Format)
	}
	if up.Width <= 0 || up.Height <= 0 || up.Width > math.MaxInt32/up.Height/c {
		return fmt.Errorf("invalid texture size %dx%d", up.Width, up.Height)
	}
	if want := up.Width * up.Height * c; len(up.Pix) < want {
		return fmt.Errorf("texture %dx%d %v needs %d bytes, got %d", up.Width, up.Height, up.Format, want, len(up.Pix))
	}
	return nil
}

// VertexStride is the number of float32 values per interleaved vertex:
// position (3), normal (3), texture coordinate (2).
const VertexStride = 8

// Mesh identifies geometry uploaded by UploadMesh.
type Mesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Valid reports whether m refers to uploaded geometry.
func (m Mesh) Valid() bool {
	return m.VAO != 0
}

// TextureUploader creates and releases image storage.
type TextureUploader interface {
	// UploadTexture stores pixels as a mipmapped, repeat-wrapped,
	// linearly-filtered 2D texture and returns its handle.
	UploadTexture(up TextureUpload) (uint32, error)
	DeleteTexture(handle uint32)
}

// Backend is everything the model needs from the graphics API.
type Backend interface {
	TextureUploader

	// UploadMesh stores interleaved vertices (VertexStride floats each)
	// and triangle indices.
	UploadMesh(vertices []float32, indices []uint32) (Mesh, error)
	DeleteMesh(m Mesh)

	// BindTexture binds handle to the given texture unit. Handle 0 binds
	// the backend's opaque white fallback texture.
	BindTexture(unit int, handle uint32)
	// DrawIndexed draws m as indexed triangles and resets the active
	// texture unit to 0.
	DrawIndexed(m Mesh)
}

// ShaderBinding receives the sampler unit assignments made while drawing.
type ShaderBinding interface {
	SetInt(name string, v int32)
}
