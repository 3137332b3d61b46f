package gpu

import "fmt"

// DrawCall records one DrawIndexed call and the textures bound for it.
type DrawCall struct {
	Mesh     Mesh
	Textures map[int]uint32 // unit -> handle
}

// Headless is a Backend that allocates handles without a graphics context.
// It records uploads, releases and draws so the pipeline can run in tools
// and tests.
type Headless struct {
	next uint32

	TextureUploads []TextureUpload
	MeshUploads    int
	Draws          []DrawCall

	liveTextures map[uint32]bool
	liveMeshes   map[uint32]bool
	bound        map[int]uint32

	// DoubleReleases counts releases of handles that were not live.
	DoubleReleases int
}

// NewHeadless creates an empty headless backend.
func NewHeadless() *Headless {
	return &Headless{
		liveTextures: make(map[uint32]bool),
		liveMeshes:   make(map[uint32]bool),
		bound:        make(map[int]uint32),
	}
}

func (h *Headless) alloc() uint32 {
	h.next++
	return h.next
}

// UploadTexture implements TextureUploader.
func (h *Headless) UploadTexture(up TextureUpload) (uint32, error) {
	if err := up.Validate(); err != nil {
		return 0, err
	}
	id := h.alloc()
	h.TextureUploads = append(h.TextureUploads, up)
	h.liveTextures[id] = true
	return id, nil
}

// DeleteTexture implements TextureUploader.
func (h *Headless) DeleteTexture(handle uint32) {
	if !h.liveTextures[handle] {
		h.DoubleReleases++
		return
	}
	delete(h.liveTextures, handle)
}

// UploadMesh implements Backend.
func (h *Headless) UploadMesh(vertices []float32, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(vertices)%VertexStride != 0 {
		return Mesh{}, fmt.Errorf("vertex data length %d is not a non-zero multiple of %d", len(vertices), VertexStride)
	}
	if len(indices) == 0 {
		return Mesh{}, fmt.Errorf("no indices")
	}
	m := Mesh{VAO: h.alloc(), VBO: h.alloc(), EBO: h.alloc(), IndexCount: int32(len(indices))}
	h.MeshUploads++
	h.liveMeshes[m.VAO] = true
	return m, nil
}

// DeleteMesh implements Backend.
func (h *Headless) DeleteMesh(m Mesh) {
	if !h.liveMeshes[m.VAO] {
		h.DoubleReleases++
		return
	}
	delete(h.liveMeshes, m.VAO)
}

// BindTexture implements Backend.
func (h *Headless) BindTexture(unit int, handle uint32) {
	h.bound[unit] = handle
}

// DrawIndexed implements Backend.
func (h *Headless) DrawIndexed(m Mesh) {
	call := DrawCall{Mesh: m, Textures: make(map[int]uint32, len(h.bound))}
	for unit, tex := range h.bound {
		call.Textures[unit] = tex
	}
	h.Draws = append(h.Draws, call)
	h.bound = make(map[int]uint32)
}

// LiveTextures returns the number of textures uploaded and not yet deleted.
func (h *Headless) LiveTextures() int {
	return len(h.liveTextures)
}

// LiveMeshes returns the number of meshes uploaded and not yet deleted.
func (h *Headless) LiveMeshes() int {
	return len(h.liveMeshes)
}

func componentsOf(f Format) int {
	switch f {
	case FormatRed:
		return 1
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	}
	return 0
}
