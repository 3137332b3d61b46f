package model

import (
	"fmt"
	"testing"

	"github.com/Faultbox/assetview/internal/engine/texture"
	"github.com/Faultbox/assetview/pkg/asset"
)

// fakeTextures hands out one slot per bound texture with a fixed handle.
type fakeTextures struct {
	calls []texture.Kind
}

func (f *fakeTextures) Load(mat *asset.Material, kind texture.Kind) []texture.Slot {
	f.calls = append(f.calls, kind)
	var slots []texture.Slot
	for i := 0; i < mat.TextureCount(kind.Source()); i++ {
		slots = append(slots, texture.Slot{Handle: 7, Kind: kind, Source: mat.Texture(kind.Source(), i)})
	}
	return slots
}

func triangle(name string) *asset.Mesh {
	return &asset.Mesh{
		Name:          name,
		Positions:     [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:         []asset.Face{{0, 1, 2}},
		MaterialIndex: -1,
	}
}

func TestWalkPreOrder(t *testing.T) {
	// root(m0) -> a(m1) -> a1(m2)
	//          -> b(m3)
	scene := &asset.Scene{}
	for i := 0; i < 4; i++ {
		scene.Meshes = append(scene.Meshes, triangle(fmt.Sprintf("m%d", i)))
	}
	scene.Root = &asset.Node{
		Name:   "root",
		Meshes: []int{0},
		Children: []*asset.Node{
			{Name: "a", Meshes: []int{1}, Children: []*asset.Node{{Name: "a1", Meshes: []int{2}}}},
			{Name: "b", Meshes: []int{3}},
		},
	}

	batches := Walk(scene.Root, scene, NewBuilder(nil))

	want := []string{"m0", "m1", "m2", "m3"}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(batches))
	}
	for i, name := range want {
		if batches[i].Name != name {
			t.Errorf("batch %d = %s, want %s", i, batches[i].Name, name)
		}
	}
}

func TestWalkMeshesBeforeChildren(t *testing.T) {
	scene := &asset.Scene{Meshes: []*asset.Mesh{triangle("child"), triangle("own1"), triangle("own2")}}
	scene.Root = &asset.Node{
		Meshes:   []int{1, 2},
		Children: []*asset.Node{{Meshes: []int{0}}},
	}

	batches := Walk(scene.Root, scene, NewBuilder(nil))
	if len(batches) != 3 || batches[0].Name != "own1" || batches[1].Name != "own2" || batches[2].Name != "child" {
		t.Errorf("unexpected order: %v", batchNames(batches))
	}
}

func TestWalkSharedAndMissingMeshes(t *testing.T) {
	scene := &asset.Scene{Meshes: []*asset.Mesh{triangle("shared")}}
	scene.Root = &asset.Node{
		Meshes:   []int{0, 5, -1},
		Children: []*asset.Node{{Meshes: []int{0}}},
	}

	batches := Walk(scene.Root, scene, NewBuilder(nil))
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %v", batchNames(batches))
	}
	if batches[0] == batches[1] {
		t.Error("each reference must produce its own batch")
	}
}

func TestWalkNilRoot(t *testing.T) {
	if batches := Walk(nil, &asset.Scene{}, NewBuilder(nil)); len(batches) != 0 {
		t.Errorf("expected no batches, got %d", len(batches))
	}
}

func TestBuild(t *testing.T) {
	mat := asset.NewMaterial("m")
	mat.AddTexture(asset.TextureHeight, "ao.png")
	mat.AddTexture(asset.TextureDiffuse, "a.png")
	mat.AddTexture(asset.TextureDiffuse, "b.png")
	scene := &asset.Scene{Materials: []*asset.Material{mat}}

	mesh := &asset.Mesh{
		Name:          "quad",
		Positions:     [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Normals:       [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords:     [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Faces:         []asset.Face{{0, 1, 2}, {0, 2, 3}, {0, 3, 9}, {0, 1}},
		MaterialIndex: 0,
	}

	src := &fakeTextures{}
	b := NewBuilder(src)
	batch := b.Build(mesh, scene)

	if len(batch.Vertices) != 4 {
		t.Fatalf("vertices = %d", len(batch.Vertices))
	}
	if got := batch.Vertices[2]; got.Normal != [3]float32{0, 0, 1} || got.TexCoord != [2]float32{1, 1} {
		t.Errorf("vertex 2 = %+v", got)
	}

	wantIdx := []uint32{0, 1, 2, 0, 2, 3}
	if len(batch.Indices) != len(wantIdx) {
		t.Fatalf("indices = %v, want %v", batch.Indices, wantIdx)
	}
	for i := range wantIdx {
		if batch.Indices[i] != wantIdx[i] {
			t.Fatalf("indices = %v, want %v", batch.Indices, wantIdx)
		}
	}
	if b.SkippedFaces() != 2 {
		t.Errorf("skipped faces = %d, want 2", b.SkippedFaces())
	}

	wantKinds := []texture.Kind{texture.Diffuse, texture.Specular, texture.Normal, texture.Height}
	if fmt.Sprint(src.calls) != fmt.Sprint(wantKinds) {
		t.Errorf("categories = %v, want %v", src.calls, wantKinds)
	}
	if len(batch.Textures) != 3 ||
		batch.Textures[0].Source != "a.png" ||
		batch.Textures[1].Source != "b.png" ||
		batch.Textures[2].Kind != texture.Height {
		t.Errorf("textures = %+v", batch.Textures)
	}

	if batch.Bounds.Max != [3]float32{1, 1, 0} {
		t.Errorf("bounds = %+v", batch.Bounds)
	}
	if n := len(batch.Interleave()); n != 4*8 {
		t.Errorf("interleaved length = %d", n)
	}
}

func TestBuildWithoutAttributes(t *testing.T) {
	src := &fakeTextures{}
	batch := NewBuilder(src).Build(triangle("bare"), &asset.Scene{})

	for i, v := range batch.Vertices {
		if v.TexCoord != [2]float32{} || v.Normal != [3]float32{} {
			t.Errorf("vertex %d = %+v, want zero UV and normal", i, v)
		}
	}
	if len(src.calls) != 0 {
		t.Errorf("mesh without material loaded textures: %v", src.calls)
	}
}

func TestBoundsUnion(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() || b.Radius() != 0 {
		t.Fatal("EmptyBounds must be empty")
	}
	b.Union(EmptyBounds())
	if !b.Empty() {
		t.Fatal("union with empty box changed bounds")
	}
	b.Union(Bounds{Min: [3]float32{-1, 0, 0}, Max: [3]float32{1, 2, 0}})
	if c := b.Center(); c[0] != 0 || c[1] != 1 {
		t.Errorf("center = %v", c)
	}
}

func batchNames(batches []*Batch) []string {
	names := make([]string, len(batches))
	for i, b := range batches {
		names[i] = b.Name
	}
	return names
}
