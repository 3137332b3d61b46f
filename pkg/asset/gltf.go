package asset

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// importGLTF reads a .gltf or .glb document.
//
// Images stored in a buffer view or a data URI are copied into the embedded
// texture table; any other URI stays a file reference relative to the
// document. Every primitive becomes its own scene mesh.
func importGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %q", path)
	}
	return convertGLTF(doc)
}

func convertGLTF(doc *gltf.Document) (*Scene, error) {
	scene := &Scene{}

	imageIDs, err := gltfImages(doc, scene)
	if err != nil {
		return nil, err
	}

	for i, m := range doc.Materials {
		scene.Materials = append(scene.Materials, gltfMaterial(doc, m, i, imageIDs))
	}

	// Scene mesh indices for each glTF mesh.
	meshMap := make([][]int, len(doc.Meshes))
	for iMesh, m := range doc.Meshes {
		for iPrim, prim := range m.Primitives {
			mesh, err := gltfPrimitive(doc, prim)
			if err != nil {
				scene.Warnings = append(scene.Warnings,
					fmt.Sprintf("mesh %d (%s) primitive %d: %v", iMesh, m.Name, iPrim, err))
				continue
			}
			mesh.Name = m.Name
			if len(m.Primitives) > 1 {
				mesh.Name = fmt.Sprintf("%s#%d", m.Name, iPrim)
			}
			if mesh.MaterialIndex >= len(scene.Materials) {
				scene.Warnings = append(scene.Warnings,
					fmt.Sprintf("mesh %q references missing material %d", mesh.Name, mesh.MaterialIndex))
				mesh.MaterialIndex = -1
			}
			meshMap[iMesh] = append(meshMap[iMesh], len(scene.Meshes))
			scene.Meshes = append(scene.Meshes, mesh)
		}
	}

	if len(doc.Scenes) == 0 {
		return scene, nil
	}
	sceneIdx := uint32(0)
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		sceneIdx = *doc.Scene
	}

	visited := make([]bool, len(doc.Nodes))
	var roots []*Node
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		if n := gltfNode(doc, idx, meshMap, visited, scene); n != nil {
			roots = append(roots, n)
		}
	}

	switch len(roots) {
	case 0:
	case 1:
		scene.Root = roots[0]
	default:
		scene.Root = &Node{Name: "RootNode", Children: roots}
	}
	return scene, nil
}

func gltfNode(doc *gltf.Document, idx uint32, meshMap [][]int, visited []bool, scene *Scene) *Node {
	if int(idx) >= len(doc.Nodes) {
		scene.Warnings = append(scene.Warnings, fmt.Sprintf("node index %d out of range", idx))
		scene.Incomplete = true
		return nil
	}
	// A well-formed document is a forest; refuse to follow shared or cyclic links.
	if visited[idx] {
		scene.Warnings = append(scene.Warnings, fmt.Sprintf("node %d referenced more than once", idx))
		return nil
	}
	visited[idx] = true

	src := doc.Nodes[idx]
	node := &Node{Name: src.Name}
	if src.Mesh != nil && int(*src.Mesh) < len(meshMap) {
		node.Meshes = append(node.Meshes, meshMap[*src.Mesh]...)
	}
	for _, c := range src.Children {
		if child := gltfNode(doc, c, meshMap, visited, scene); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// gltfImages assigns a material identifier to every image.
func gltfImages(doc *gltf.Document, scene *Scene) ([]string, error) {
	ids := make([]string, len(doc.Images))
	for i, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			data, err := bufferViewData(doc, *img.BufferView)
			if err != nil {
				return nil, errors.Wrapf(err, "image %d (%s)", i, img.Name)
			}
			ids[i] = embed(scene, data, img.MimeType)
		case img.IsEmbeddedResource():
			data, err := img.MarshalData()
			if err != nil {
				return nil, errors.Wrapf(err, "image %d (%s) data uri", i, img.Name)
			}
			ids[i] = embed(scene, data, img.MimeType)
		default:
			uri, err := url.PathUnescape(img.URI)
			if err != nil {
				uri = img.URI
			}
			ids[i] = uri
		}
	}
	return ids, nil
}

func embed(scene *Scene, data []byte, mime string) string {
	scene.Textures = append(scene.Textures, &EmbeddedTexture{
		Width:      len(data),
		FormatHint: gltfMimeExt(mime),
		Data:       data,
	})
	return EmbeddedID(len(scene.Textures) - 1)
}

func bufferViewData(doc *gltf.Document, idx uint32) ([]byte, error) {
	if int(idx) >= len(doc.BufferViews) {
		return nil, errors.Errorf("buffer view %d out of range", idx)
	}
	view := doc.BufferViews[idx]
	if int(view.Buffer) >= len(doc.Buffers) {
		return nil, errors.Errorf("buffer %d out of range", view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	start, end := int(view.ByteOffset), int(view.ByteOffset)+int(view.ByteLength)
	if end > len(data) {
		return nil, errors.Errorf("buffer view %d exceeds buffer (%d > %d)", idx, end, len(data))
	}
	return data[start:end], nil
}

// gltfMaterial maps the metallic-roughness model onto the four slots:
// base color is diffuse, metallic-roughness is specular, normal is normal
// and occlusion fills the height slot.
func gltfMaterial(doc *gltf.Document, m *gltf.Material, idx int, imageIDs []string) *Material {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", idx)
	}
	mat := NewMaterial(name)

	texID := func(texIdx uint32) string {
		if int(texIdx) >= len(doc.Textures) {
			return ""
		}
		tex := doc.Textures[texIdx]
		if tex.Source == nil || int(*tex.Source) >= len(imageIDs) {
			return ""
		}
		return imageIDs[*tex.Source]
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			mat.AddTexture(TextureDiffuse, texID(pbr.BaseColorTexture.Index))
		}
		if pbr.MetallicRoughnessTexture != nil {
			mat.AddTexture(TextureSpecular, texID(pbr.MetallicRoughnessTexture.Index))
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		mat.AddTexture(TextureNormal, texID(*m.NormalTexture.Index))
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		mat.AddTexture(TextureHeight, texID(*m.OcclusionTexture.Index))
	}
	return mat
}

func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok || int(posIdx) >= len(doc.Accessors) {
		return nil, errors.New("no POSITION attribute")
	}

	mesh := &Mesh{MaterialIndex: -1}
	if prim.Material != nil {
		mesh.MaterialIndex = int(*prim.Material)
	}

	var err error
	mesh.Positions, err = modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok && int(idx) < len(doc.Accessors) {
		if mesh.Normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && int(idx) < len(doc.Accessors) {
		if mesh.TexCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "read texture coordinates")
		}
	}

	var indices []uint32
	if prim.Indices != nil && int(*prim.Indices) < len(doc.Accessors) {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(mesh.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				mesh.Faces = append(mesh.Faces, Face{indices[i], indices[i+1], indices[i+2]})
			} else {
				mesh.Faces = append(mesh.Faces, Face{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			mesh.Faces = append(mesh.Faces, Face{indices[0], indices[i], indices[i+1]})
		}
	default:
		return nil, errors.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	if mesh.Normals != nil && len(mesh.Normals) != len(mesh.Positions) {
		mesh.Normals = nil
	}
	if mesh.TexCoords != nil && len(mesh.TexCoords) != len(mesh.Positions) {
		mesh.TexCoords = nil
	}
	return mesh, nil
}

// gltfMimeExt converts an image MIME type to an extension hint.
func gltfMimeExt(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return "." + mime[i+1:]
	}
	return ""
}
