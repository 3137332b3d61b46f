// Package renderer draws a loaded model with the lit model shader.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/engine/camera"
	"github.com/Faultbox/assetview/internal/engine/debug"
	"github.com/Faultbox/assetview/internal/engine/gpu"
	"github.com/Faultbox/assetview/internal/engine/model"
	"github.com/Faultbox/assetview/internal/engine/shader"
	"github.com/Faultbox/assetview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	ClearColor  mgl32.Vec4
	LightDir    mgl32.Vec3
	Ambient     float32
	Wireframe   bool
	ShowBounds  bool
	BoundsColor mgl32.Vec4
}

// DefaultConfig returns a dark background and a light from above-front.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:       width,
		Height:      height,
		ClearColor:  mgl32.Vec4{0.1, 0.1, 0.15, 1},
		LightDir:    mgl32.Vec3{-0.3, -1, -0.5},
		Ambient:     0.25,
		BoundsColor: mgl32.Vec4{1, 0.8, 0.2, 1},
	}
}

// Renderer owns the GL backend and the model program.
type Renderer struct {
	config  Config
	backend *gpu.GL
	program *shader.Program

	lines    *shader.Program
	boundVAO uint32
	boundVBO uint32
}

// New creates a renderer. The GL context must be current and initialized.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	backend, err := gpu.NewGL()
	if err != nil {
		return nil, err
	}
	r.backend = backend

	r.program, err = shader.NewProgram(shader.ModelVertex, shader.ModelFragment)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("model shader: %w", err)
	}

	r.lines, err = shader.NewProgram(shader.LineVertex, shader.LineFragment)
	if err != nil {
		r.program.Delete()
		backend.Close()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.initBoundsBuffer()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	r.Resize(cfg.Width, cfg.Height)

	logger.Debug("renderer created", zap.Uint32("program", r.program.ID))
	return r, nil
}

// Backend returns the GL backend models upload through.
func (r *Renderer) Backend() gpu.Backend {
	return r.backend
}

// Close releases the program and the backend's own textures.
func (r *Renderer) Close() {
	gl.DeleteBuffers(1, &r.boundVBO)
	gl.DeleteVertexArrays(1, &r.boundVAO)
	r.lines.Delete()
	r.program.Delete()
	r.backend.Close()
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// SetShowBounds toggles the bounding box overlay.
func (r *Renderer) SetShowBounds(on bool) {
	r.config.ShowBounds = on
}

// Aspect returns width over height of the viewport.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawModel draws m as seen from cam.
func (r *Renderer) DrawModel(m *model.Model, cam *camera.FirstPerson) {
	if m == nil {
		return
	}
	mode := uint32(gl.FILL)
	if r.config.Wireframe {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)

	p := r.program
	p.Use()
	p.SetMat4("uModel", mgl32.Ident4())
	p.SetMat4("uView", cam.ViewMatrix())
	p.SetMat4("uProjection", cam.Projection(r.Aspect()))
	p.SetVec3("uLightDir", r.config.LightDir)
	p.SetVec3("uViewPos", cam.Position)
	p.SetFloat("uAmbient", r.config.Ambient)

	m.Draw(p)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (r *Renderer) initBoundsBuffer() {
	gl.GenVertexArrays(1, &r.boundVAO)
	gl.GenBuffers(1, &r.boundVBO)

	gl.BindVertexArray(r.boundVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundVBO)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BoxLineVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

// DrawBounds outlines the model's bounding box when the overlay is on.
func (r *Renderer) DrawBounds(m *model.Model, cam *camera.FirstPerson) {
	if m == nil || !r.config.ShowBounds {
		return
	}
	b := m.Bounds()
	if b.Empty() {
		return
	}

	verts := debug.BoxLines(b.Min, b.Max, b.Radius()*0.01)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))

	r.lines.Use()
	r.lines.SetMat4("uViewProjection", cam.Projection(r.Aspect()).Mul4(cam.ViewMatrix()))
	r.lines.SetVec4("uColor", r.config.BoundsColor)

	gl.BindVertexArray(r.boundVAO)
	gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertexCount)
	gl.BindVertexArray(0)
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
