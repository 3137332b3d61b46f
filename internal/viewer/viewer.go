// Package viewer runs the interactive model viewer: window, input,
// first-person camera and the model draw loop.
package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/config"
	"github.com/Faultbox/assetview/internal/engine/camera"
	"github.com/Faultbox/assetview/internal/engine/debug"
	"github.com/Faultbox/assetview/internal/engine/input"
	"github.com/Faultbox/assetview/internal/engine/lighting"
	"github.com/Faultbox/assetview/internal/engine/model"
	"github.com/Faultbox/assetview/internal/engine/renderer"
	"github.com/Faultbox/assetview/internal/engine/window"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/internal/watch"
)

// Held keys and the direction they move the camera.
var moveKeys = []struct {
	key sdl.Scancode
	dir camera.Movement
}{
	{sdl.SCANCODE_W, camera.Forward},
	{sdl.SCANCODE_S, camera.Backward},
	{sdl.SCANCODE_A, camera.Left},
	{sdl.SCANCODE_D, camera.Right},
	{sdl.SCANCODE_SPACE, camera.Up},
	{sdl.SCANCODE_LSHIFT, camera.Down},
}

// Viewer is the running application.
type Viewer struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.FirstPerson
	model    *model.Model
	watcher  *watch.Watcher
	shots    *debug.Screenshots
	log      *zap.Logger

	running    bool
	captured   bool
	wireframe  bool
	showBounds bool
	capture    bool
}

// New opens the window and loads the configured model.
// A model that fails to import is reported and the viewer starts empty.
func New(cfg *config.Config) (*Viewer, error) {
	if cfg.Model.Path == "" {
		return nil, errors.New("no model given")
	}

	v := &Viewer{
		cfg:      cfg,
		input:    input.New(),
		log:      logger.Named("viewer"),
		captured: true,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := v.window.DrawableSize()
	rcfg := renderer.DefaultConfig(dw, dh)
	rcfg.LightDir = lighting.Sun{Azimuth: cfg.Lighting.Azimuth, Elevation: cfg.Lighting.Elevation}.Direction()
	rcfg.Ambient = cfg.Lighting.Ambient
	v.renderer, err = renderer.New(rcfg)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera = camera.New(cfg.Camera.CameraPosition())
	v.camera.Zoom = cfg.Camera.FOV
	v.camera.Near = cfg.Camera.Near
	v.camera.Far = cfg.Camera.Far
	v.camera.Speed = cfg.Camera.Speed
	v.camera.Sensitivity = cfg.Camera.Sensitivity

	base := filepath.Base(cfg.Model.Path)
	v.shots = debug.NewScreenshots(cfg.Window.ScreenshotDir, strings.TrimSuffix(base, filepath.Ext(base)))

	v.load()

	if cfg.Model.Watch {
		v.watcher, err = watch.New(cfg.Model.Path, watch.DefaultDebounce)
		if err != nil {
			v.log.Warn("file watching disabled", zap.Error(err))
		}
	}

	return v, nil
}

// load replaces the current model with a fresh import of the configured path.
func (v *Viewer) load() {
	opts := model.DefaultOptions()
	opts.FlipUVs = v.cfg.Model.FlipUVs
	opts.MaxTextureSize = v.cfg.Texture.MaxSize

	m, err := model.Load(v.cfg.Model.Path, v.renderer.Backend(), opts)
	if err != nil {
		var ierr *model.ImportError
		if errors.As(err, &ierr) {
			v.log.Error("model not loaded", zap.String("path", ierr.Path), zap.String("diagnostic", ierr.Diagnostic))
		}
	}

	if v.model != nil {
		v.model.Destroy()
	}
	v.model = m

	for _, f := range m.Stats().Failures {
		v.log.Warn("missing texture", zap.Stringer("kind", f.Kind), zap.String("source", f.Source))
	}
	if v.cfg.Camera.FitModel {
		b := m.Bounds()
		v.camera.FitToBounds(b.Center(), b.Radius())
	}
	v.updateTitle()
}

func (v *Viewer) updateTitle() {
	s := v.model.Stats()
	v.window.SetTitle(fmt.Sprintf("%s - %s (%d meshes, %d vertices, %d textures)",
		v.cfg.Window.Title, filepath.Base(v.model.Path()), s.Batches, s.Vertices, s.UniqueTextures))
}

// Run runs the frame loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		frame := v.input.Update()
		if frame.Quit || frame.Pressed(sdl.SCANCODE_ESCAPE) {
			v.running = false
			break
		}
		v.handleFrame(frame, dt)

		if v.watcher != nil {
			if file, ok := v.watcher.Poll(); ok {
				v.log.Info("reloading", zap.String("changed", file))
				v.load()
			}
		}

		v.renderer.Begin()
		v.renderer.DrawModel(v.model, v.camera)
		v.renderer.DrawBounds(v.model, v.camera)
		if v.capture {
			v.capture = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleFrame(frame *input.Frame, dt float32) {
	if frame.Resized {
		v.renderer.Resize(v.window.DrawableSize())
	}
	if frame.Pressed(sdl.SCANCODE_TAB) {
		v.captured = !v.captured
		v.window.SetMouseCaptured(v.captured)
	}
	if frame.Pressed(sdl.SCANCODE_F) {
		v.wireframe = !v.wireframe
		v.renderer.SetWireframe(v.wireframe)
	}
	if frame.Pressed(sdl.SCANCODE_B) {
		v.showBounds = !v.showBounds
		v.renderer.SetShowBounds(v.showBounds)
	}
	if frame.Pressed(sdl.SCANCODE_R) {
		v.load()
	}
	if frame.Pressed(sdl.SCANCODE_F12) {
		v.capture = true
	}

	for _, mk := range moveKeys {
		if v.input.Held(mk.key) {
			v.camera.ProcessKeyboard(mk.dir, dt)
		}
	}
	if v.captured {
		v.camera.ProcessMouseMovement(frame.MouseDX, frame.MouseDY)
	}
	if frame.WheelY != 0 {
		v.camera.ProcessMouseScroll(frame.WheelY)
	}
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SaveFramebuffer(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the model, the watcher and the window.
func (v *Viewer) Close() {
	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.model != nil {
		v.model.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
