package asset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// objCorner is one face corner as 0-based (position, uv, normal) indices;
// -1 marks a missing attribute.
type objCorner [3]int

// objBuilder accumulates meshes while reading an OBJ stream.
type objBuilder struct {
	dir   string
	scene *Scene

	positions [][3]float32
	texCoords [][2]float32
	normals   [][3]float32

	materials map[string]int
	material  int

	node  *Node
	mesh  *Mesh
	remap map[objCorner]uint32
	hasUV bool
	hasN  bool
}

// importOBJ reads a Wavefront OBJ file and the MTL libraries it names.
//
// Each "o" or "g" statement starts a new child node of the root; "usemtl"
// starts a new mesh within the current node. MTL texture statements map to
// slots like this: map_Kd diffuse, map_Ks specular, map_Bump/bump/norm
// normal, map_Ka/disp height.
func importOBJ(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open obj %q", path)
	}
	defer f.Close()

	return decodeOBJ(f, filepath.Dir(path))
}

func decodeOBJ(r io.Reader, dir string) (*Scene, error) {
	b := &objBuilder{
		dir:       dir,
		scene:     &Scene{Root: &Node{Name: "RootNode"}},
		materials: make(map[string]int),
		material:  -1,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if err := b.statement(fields); err != nil {
			return nil, errors.Wrapf(err, "obj line %d", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read obj")
	}

	b.finishMesh()
	return b.scene, nil
}

func (b *objBuilder) statement(fields []string) error {
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		b.positions = append(b.positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 1)
		if err != nil {
			return err
		}
		var uv [2]float32
		copy(uv[:], v)
		b.texCoords = append(b.texCoords, uv)
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		b.normals = append(b.normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return b.face(fields[1:])
	case "o", "g":
		name := strings.Join(fields[1:], " ")
		b.finishMesh()
		b.node = &Node{Name: name}
		b.scene.Root.Children = append(b.scene.Root.Children, b.node)
	case "usemtl":
		name := strings.Join(fields[1:], " ")
		idx, ok := b.materials[name]
		if !ok {
			b.scene.Warnings = append(b.scene.Warnings, fmt.Sprintf("unknown material %q", name))
			idx = -1
		}
		if idx != b.material {
			b.finishMesh()
			b.material = idx
		}
	case "mtllib":
		for _, lib := range fields[1:] {
			if err := b.loadMTL(filepath.Join(b.dir, lib)); err != nil {
				b.scene.Warnings = append(b.scene.Warnings, err.Error())
			}
		}
	}
	return nil
}

func (b *objBuilder) face(refs []string) error {
	if len(refs) < 3 {
		return errors.Errorf("face with %d corners", len(refs))
	}
	if b.mesh == nil {
		b.startMesh()
	}

	face := make(Face, 0, len(refs))
	for _, ref := range refs {
		c, err := b.corner(ref)
		if err != nil {
			return err
		}
		idx, ok := b.remap[c]
		if !ok {
			idx = uint32(len(b.mesh.Positions))
			b.remap[c] = idx
			b.mesh.Positions = append(b.mesh.Positions, b.positions[c[0]])
			var uv [2]float32
			if c[1] >= 0 {
				uv = b.texCoords[c[1]]
				b.hasUV = true
			}
			b.mesh.TexCoords = append(b.mesh.TexCoords, uv)
			var n [3]float32
			if c[2] >= 0 {
				n = b.normals[c[2]]
				b.hasN = true
			}
			b.mesh.Normals = append(b.mesh.Normals, n)
		}
		face = append(face, idx)
	}
	b.mesh.Faces = append(b.mesh.Faces, face)
	return nil
}

// corner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices count
// back from the most recent element.
func (b *objBuilder) corner(ref string) (objCorner, error) {
	c := objCorner{-1, -1, -1}
	counts := [3]int{len(b.positions), len(b.texCoords), len(b.normals)}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return c, errors.Errorf("bad face corner %q", ref)
	}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return c, errors.Errorf("bad face corner %q", ref)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return c, errors.Wrapf(err, "face corner %q", ref)
		}
		if n < 0 {
			n = counts[i] + n
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return c, errors.Errorf("face corner %q out of range", ref)
		}
		c[i] = n
	}
	return c, nil
}

func (b *objBuilder) startMesh() {
	if b.node == nil {
		b.node = b.scene.Root
	}
	name := b.node.Name
	if b.material >= 0 {
		name += ":" + b.scene.Materials[b.material].Name
	}
	b.mesh = &Mesh{Name: name, MaterialIndex: b.material}
	b.remap = make(map[objCorner]uint32)
	b.hasUV, b.hasN = false, false
}

func (b *objBuilder) finishMesh() {
	if b.mesh == nil {
		return
	}
	if len(b.mesh.Faces) > 0 {
		if !b.hasUV {
			b.mesh.TexCoords = nil
		}
		if !b.hasN {
			b.mesh.Normals = nil
		}
		b.node.Meshes = append(b.node.Meshes, len(b.scene.Meshes))
		b.scene.Meshes = append(b.scene.Meshes, b.mesh)
	}
	b.mesh = nil
	b.remap = nil
}

func parseFloats(fields []string, min int) ([]float32, error) {
	if len(fields) < min {
		return nil, errors.Errorf("expected %d values, got %d", min, len(fields))
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "value %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}
