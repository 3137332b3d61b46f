package asset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cubeFaceOBJ = `
# two quads sharing an edge
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0 0
v 2 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
o Wall
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl stone
f 2/1/1 5/2/1 6/3/1 3/4/1
o Floor
usemtl brick
f -6//1 -5//1 -4//1
`

const cubeFaceMTL = `
newmtl brick
map_Kd wall.png
map_Bump -bm 0.5 wall normal.png
newmtl stone
map_Kd wall.png
map_Ks stone_spec.png
map_Ka stone_ao.png
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestImportOBJ(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.obj", cubeFaceOBJ)
	writeFile(t, dir, "scene.mtl", cubeFaceMTL)

	scene, err := Import(path, Triangulate)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(scene.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(scene.Materials))
	}
	brick := scene.Materials[0]
	if got := brick.Texture(TextureDiffuse, 0); got != "wall.png" {
		t.Errorf("brick diffuse = %q, want wall.png", got)
	}
	if got := brick.Texture(TextureNormal, 0); got != "wall normal.png" {
		t.Errorf("brick normal = %q, want %q", got, "wall normal.png")
	}
	stone := scene.Materials[1]
	if stone.TextureCount(TextureSpecular) != 1 || stone.TextureCount(TextureHeight) != 1 {
		t.Errorf("stone specular/height counts = %d/%d, want 1/1",
			stone.TextureCount(TextureSpecular), stone.TextureCount(TextureHeight))
	}

	root := scene.Root
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 object nodes, got %d", len(root.Children))
	}
	wall := root.Children[0]
	if wall.Name != "Wall" || len(wall.Meshes) != 2 {
		t.Fatalf("wall node = %q with %d meshes, want Wall with 2", wall.Name, len(wall.Meshes))
	}

	m := scene.Meshes[wall.Meshes[0]]
	if m.MaterialIndex != 0 {
		t.Errorf("first wall mesh material = %d, want 0", m.MaterialIndex)
	}
	if len(m.Faces) != 2 {
		t.Errorf("quad should triangulate into 2 faces, got %d", len(m.Faces))
	}
	if len(m.Positions) != 4 || !m.HasTexCoords() || !m.HasNormals() {
		t.Errorf("unexpected vertex data: %d positions, uv=%v, normals=%v",
			len(m.Positions), m.HasTexCoords(), m.HasNormals())
	}

	floor := scene.Meshes[root.Children[1].Meshes[0]]
	if floor.HasTexCoords() {
		t.Error("floor mesh has no vt references and should have no UV channel")
	}
	if floor.Positions[2] != [3]float32{1, 1, 0} {
		t.Errorf("negative index resolved to %v, want [1 1 0]", floor.Positions[2])
	}
}

func TestImportOBJMissingMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lonely.obj", "mtllib nothere.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl ghost\nf 1 2 3\n")

	scene, err := Import(path, Triangulate)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(scene.Warnings) != 2 {
		t.Errorf("expected 2 warnings (library, material), got %v", scene.Warnings)
	}
	if len(scene.Meshes) != 1 || scene.Meshes[0].MaterialIndex != -1 {
		t.Errorf("expected one mesh without material")
	}
}

func TestDecodeOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad float", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"line face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"empty position", "v 0 0 0\nf /1 1 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeOBJ(strings.NewReader(tt.src), "."); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestMTLMapFile(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"diffuse.png"}, "diffuse.png"},
		{[]string{"-bm", "0.3", "normal.png"}, "normal.png"},
		{[]string{"-s", "1", "1", "1", "-clamp", "on", "tex.tga"}, "tex.tga"},
		{[]string{"my", "texture.jpg"}, "my texture.jpg"},
		{[]string{"-bm", "0.3"}, ""},
	}

	for _, tt := range tests {
		if got := mtlMapFile(tt.args); got != tt.want {
			t.Errorf("mtlMapFile(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
