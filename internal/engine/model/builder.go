package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/engine/texture"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/pkg/asset"
)

// TextureSource resolves the textures a material binds to one category.
// *texture.Loader implements it.
type TextureSource interface {
	Load(mat *asset.Material, kind texture.Kind) []texture.Slot
}

// Builder converts importer meshes into batches.
type Builder struct {
	Textures TextureSource

	skippedFaces int
}

// NewBuilder creates a builder resolving materials through textures.
// A nil source builds untextured batches.
func NewBuilder(textures TextureSource) *Builder {
	return &Builder{Textures: textures}
}

// SkippedFaces returns how many faces were dropped for referencing
// missing vertices or not being triangles.
func (b *Builder) SkippedFaces() int {
	return b.skippedFaces
}

// Build converts one mesh. Meshes without UVs get (0,0) texture
// coordinates and meshes without normals get zero normals.
func (b *Builder) Build(mesh *asset.Mesh, scene *asset.Scene) *Batch {
	batch := &Batch{
		Name:     mesh.Name,
		Vertices: make([]Vertex, len(mesh.Positions)),
		Indices:  make([]uint32, 0, len(mesh.Faces)*3),
		Bounds:   EmptyBounds(),
	}

	hasNormals := mesh.HasNormals()
	hasUVs := mesh.HasTexCoords()
	for i, p := range mesh.Positions {
		v := &batch.Vertices[i]
		v.Position = p
		if hasNormals {
			v.Normal = mesh.Normals[i]
		}
		if hasUVs {
			v.TexCoord = mesh.TexCoords[i]
		}
		batch.Bounds.Extend(p)
	}

	count := uint32(len(batch.Vertices))
	skipped := 0
	for _, face := range mesh.Faces {
		if len(face) != 3 || face[0] >= count || face[1] >= count || face[2] >= count {
			skipped++
			continue
		}
		batch.Indices = append(batch.Indices, face...)
	}
	if skipped > 0 {
		b.skippedFaces += skipped
		logger.Warn("faces skipped", zap.String("mesh", mesh.Name), zap.Int("count", skipped))
	}

	if b.Textures != nil && scene != nil && mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(scene.Materials) {
		mat := scene.Materials[mesh.MaterialIndex]
		for _, kind := range texture.Kinds {
			batch.Textures = append(batch.Textures, b.Textures.Load(mat, kind)...)
		}
	}

	return batch
}
