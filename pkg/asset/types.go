// Package asset imports 3D model files into a format-neutral scene graph.
//
// A Scene is an immutable tree of nodes referencing meshes by index into a
// global mesh table, plus the material table and an optional table of
// textures embedded in the asset itself. Embedded textures are referenced
// from materials by an identifier of the form "*N".
package asset

import "strconv"

// EmbeddedMarker prefixes material texture identifiers that reference the
// scene's embedded texture table instead of a file.
const EmbeddedMarker = '*'

// Flags controls post-processing applied by Import.
type Flags uint32

const (
	// Triangulate splits polygons with more than three corners into triangles.
	Triangulate Flags = 1 << iota
	// FlipUVs flips the V texture coordinate (v = 1 - v).
	FlipUVs
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// TextureType is the semantic slot a material binds a texture to.
type TextureType int

const (
	TextureDiffuse TextureType = iota
	TextureSpecular
	TextureNormal
	TextureHeight
	textureTypeCount
)

var textureTypeNames = [...]string{"diffuse", "specular", "normal", "height"}

func (t TextureType) String() string {
	if t < 0 || t >= textureTypeCount {
		return "TextureType(" + strconv.Itoa(int(t)) + ")"
	}
	return textureTypeNames[t]
}

// Scene is the result of one import pass.
type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	Textures  []*EmbeddedTexture

	// Incomplete is set when the importer could only partially build the scene.
	Incomplete bool
	// Warnings collects non-fatal importer diagnostics.
	Warnings []string
}

// Node is one node of the scene tree.
type Node struct {
	Name     string
	Meshes   []int // indices into Scene.Meshes
	Children []*Node
}

// Face is a polygon given as indices into the owning mesh's vertex arrays.
type Face []uint32

// Mesh holds per-vertex attributes and faces for a single material.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32 // nil when the source has no normals
	TexCoords [][2]float32 // first UV channel; nil when absent
	Faces     []Face

	// MaterialIndex indexes Scene.Materials, or is -1 for none.
	MaterialIndex int
}

// HasTexCoords reports whether the mesh carries a first UV channel.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) == len(m.Positions) && len(m.TexCoords) > 0
}

// HasNormals reports whether the mesh carries per-vertex normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) == len(m.Positions) && len(m.Normals) > 0
}

// Material binds texture identifiers to semantic slots.
type Material struct {
	Name     string
	textures [textureTypeCount][]string
}

// NewMaterial creates an empty material.
func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// AddTexture appends a texture identifier to the given slot.
func (m *Material) AddTexture(t TextureType, id string) {
	if t < 0 || t >= textureTypeCount || id == "" {
		return
	}
	m.textures[t] = append(m.textures[t], id)
}

// TextureCount returns the number of textures bound to a slot.
func (m *Material) TextureCount(t TextureType) int {
	if t < 0 || t >= textureTypeCount {
		return 0
	}
	return len(m.textures[t])
}

// Texture returns the i-th texture identifier bound to a slot.
func (m *Material) Texture(t TextureType, i int) string {
	if i < 0 || i >= m.TextureCount(t) {
		return ""
	}
	return m.textures[t][i]
}

// EmbeddedTexture is a texture stored inside the asset.
//
// When Height is zero, Data holds a compressed image (PNG, JPEG, ...) and
// Width is its byte length. Otherwise Data holds Width*Height RGBA texels.
type EmbeddedTexture struct {
	Width      int
	Height     int
	FormatHint string // file extension such as ".png", may be empty
	Data       []byte
}

// Compressed reports whether Data is an encoded image stream.
func (t *EmbeddedTexture) Compressed() bool {
	return t.Height == 0
}

// EmbeddedID returns the material identifier for embedded texture i.
func EmbeddedID(i int) string {
	return string(EmbeddedMarker) + strconv.Itoa(i)
}

// ParseEmbeddedID parses an identifier of the form "*N".
// ok is false when id is not an embedded reference.
func ParseEmbeddedID(id string) (index int, ok bool) {
	// Atoi would accept a sign after the marker.
	if len(id) < 2 || id[0] != EmbeddedMarker || id[1] < '0' || id[1] > '9' {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsEmbeddedID reports whether id starts with the embedded marker.
func IsEmbeddedID(id string) bool {
	return len(id) > 0 && id[0] == EmbeddedMarker
}
