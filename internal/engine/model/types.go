// Package model turns an imported scene into renderable batches and draws
// them.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/assetview/internal/engine/gpu"
	"github.com/Faultbox/assetview/internal/engine/texture"
)

// Vertex is one interleaved vertex as uploaded: position, normal, UV.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Batch is one drawable mesh: geometry plus the textures bound for it.
// Texture handles are shared with the model's cache, which owns them.
type Batch struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Textures []texture.Slot
	Bounds   Bounds

	GPU gpu.Mesh
}

// Interleave packs the vertices in the layout gpu.VertexStride describes.
func (b *Batch) Interleave() []float32 {
	out := make([]float32, 0, len(b.Vertices)*gpu.VertexStride)
	for _, v := range b.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
		)
	}
	return out
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns an inverted box that any Extend call replaces.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether no point was added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows the box to contain o.
func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return mgl32.Vec3(b.Min).Add(mgl32.Vec3(b.Max)).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b Bounds) Size() mgl32.Vec3 {
	return mgl32.Vec3(b.Max).Sub(mgl32.Vec3(b.Min))
}

// Radius returns half the diagonal, zero for an empty box.
func (b Bounds) Radius() float32 {
	if b.Empty() {
		return 0
	}
	return b.Size().Len() / 2
}

// Stats summarizes a loaded model.
type Stats struct {
	Batches        int
	Vertices       int
	Indices        int
	TextureSlots   int // slots across all batches, shared ones counted each time
	UniqueTextures int // uploads held by the cache
	CacheHits      int
	Failures       []*texture.LoadError
	Warnings       []string
}
