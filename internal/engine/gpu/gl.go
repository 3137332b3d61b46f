package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GL is the OpenGL 4.1 core backend. All methods must run on the thread
// that owns the current context.
//
// Units bound for a draw are reset to a 1x1 white texture afterwards, so
// a batch without textures samples white instead of its predecessor's.
type GL struct {
	white uint32
	bound int // units bound since the last draw
}

// NewGL returns the OpenGL backend. gl.Init must already have been called.
func NewGL() (*GL, error) {
	g := &GL{}
	white, err := g.UploadTexture(TextureUpload{Width: 1, Height: 1, Format: FormatRGBA, Pix: []byte{255, 255, 255, 255}})
	if err != nil {
		return nil, fmt.Errorf("fallback texture: %w", err)
	}
	g.white = white
	return g, nil
}

// Close releases the fallback texture.
func (g *GL) Close() {
	g.DeleteTexture(g.white)
	g.white = 0
}

func glFormat(f Format) (int32, uint32, error) {
	switch f {
	case FormatRed:
		return gl.RED, gl.RED, nil
	case FormatRGB:
		return gl.RGB, gl.RGB, nil
	case FormatRGBA:
		return gl.RGBA, gl.RGBA, nil
	}
	return 0, 0, fmt.Errorf("unsupported texture format %v", f)
}

// UploadTexture implements TextureUploader.
func (*GL) UploadTexture(up TextureUpload) (uint32, error) {
	if err := up.Validate(); err != nil {
		return 0, err
	}
	internal, format, err := glFormat(up.Format)
	if err != nil {
		return 0, err
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	// RED and RGB rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(up.Width), int32(up.Height), 0,
		format, gl.UNSIGNED_BYTE, unsafe.Pointer(&up.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID, nil
}

// DeleteTexture implements TextureUploader.
func (*GL) DeleteTexture(handle uint32) {
	if handle != 0 {
		gl.DeleteTextures(1, &handle)
	}
}

// UploadMesh implements Backend.
func (*GL) UploadMesh(vertices []float32, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(vertices)%VertexStride != 0 {
		return Mesh{}, fmt.Errorf("vertex data length %d is not a non-zero multiple of %d", len(vertices), VertexStride)
	}
	if len(indices) == 0 {
		return Mesh{}, fmt.Errorf("no indices")
	}

	var m Mesh
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(VertexStride * 4)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	m.IndexCount = int32(len(indices))
	gl.BindVertexArray(0)
	return m, nil
}

// DeleteMesh implements Backend.
func (*GL) DeleteMesh(m Mesh) {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
}

// BindTexture implements Backend.
func (g *GL) BindTexture(unit int, handle uint32) {
	if handle == 0 {
		handle = g.white
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, handle)
	g.bound = max(g.bound, unit+1)
}

// DrawIndexed implements Backend.
func (g *GL) DrawIndexed(m Mesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	for unit := 0; unit < g.bound; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, g.white)
	}
	g.bound = 0
	gl.ActiveTexture(gl.TEXTURE0)
}
