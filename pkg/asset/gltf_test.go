package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func u32(v uint32) *uint32 { return &v }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// writeTestGLB writes a two-node document: a root triangle with an embedded
// base color texture and a child quad with an external normal map.
func writeTestGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()

	imgIdx, err := modeler.WriteImage(doc, "albedo", "image/png", bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	doc.Images = append(doc.Images, &gltf.Image{Name: "normal", URI: "textures/brick%20normal.png"})
	doc.Textures = append(doc.Textures,
		&gltf.Texture{Source: u32(imgIdx)},
		&gltf.Texture{Source: u32(uint32(len(doc.Images) - 1))},
	)
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "brick",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
		NormalTexture: &gltf.NormalTexture{Index: u32(1)},
	})

	tri := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 0.25}}),
		},
		Indices:  u32(modeler.WriteIndices(doc, []uint32{0, 1, 2})),
		Material: u32(0),
	}
	quad := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}),
		},
		Indices: u32(modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})),
	}
	doc.Meshes = append(doc.Meshes,
		&gltf.Mesh{Name: "tri", Primitives: []*gltf.Primitive{tri}},
		&gltf.Mesh{Name: "quad", Primitives: []*gltf.Primitive{quad}},
	)
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "root", Mesh: u32(0), Children: []uint32{1}},
		&gltf.Node{Name: "child", Mesh: u32(1)},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "model.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestImportGLTF(t *testing.T) {
	path := writeTestGLB(t)

	scene, err := Import(path, Triangulate|FlipUVs)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if scene.Root == nil || scene.Root.Name != "root" {
		t.Fatalf("expected root node named root, got %+v", scene.Root)
	}
	if len(scene.Root.Children) != 1 || scene.Root.Children[0].Name != "child" {
		t.Fatalf("expected single child node, got %+v", scene.Root.Children)
	}
	if len(scene.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(scene.Meshes))
	}

	if len(scene.Textures) != 1 {
		t.Fatalf("expected 1 embedded texture, got %d", len(scene.Textures))
	}
	emb := scene.Textures[0]
	if !emb.Compressed() || emb.Width != len(emb.Data) || emb.FormatHint != ".png" {
		t.Errorf("embedded texture = {w:%d h:%d hint:%q len:%d}", emb.Width, emb.Height, emb.FormatHint, len(emb.Data))
	}

	mat := scene.Materials[0]
	if got := mat.Texture(TextureDiffuse, 0); got != "*0" {
		t.Errorf("diffuse id = %q, want *0", got)
	}
	if got := mat.Texture(TextureNormal, 0); got != "textures/brick normal.png" {
		t.Errorf("normal id = %q, want unescaped file path", got)
	}

	tri := scene.Meshes[0]
	if tri.MaterialIndex != 0 || !tri.HasTexCoords() {
		t.Errorf("tri mesh: material=%d uv=%v", tri.MaterialIndex, tri.HasTexCoords())
	}
	if tri.TexCoords[2][1] != 0.75 {
		t.Errorf("flipped v = %v, want 0.75", tri.TexCoords[2][1])
	}

	quad := scene.Meshes[1]
	if quad.MaterialIndex != -1 || quad.HasTexCoords() || len(quad.Faces) != 2 {
		t.Errorf("quad mesh: material=%d uv=%v faces=%d", quad.MaterialIndex, quad.HasTexCoords(), len(quad.Faces))
	}
}

func TestImportGLTFNoRoot(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	_, err := Import(path, Triangulate)
	if !errors.Is(err, ErrNoRoot) {
		t.Errorf("expected ErrNoRoot, got %v", err)
	}
}

func TestImportUnsupported(t *testing.T) {
	_, err := Import("model.fbx", Triangulate)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportMissingFile(t *testing.T) {
	if _, err := Import(filepath.Join(t.TempDir(), "missing.gltf"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}
