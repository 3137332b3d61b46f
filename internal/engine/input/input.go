// Package input collects SDL2 events into per-frame input state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Frame is the input gathered by one Update call.
type Frame struct {
	Quit    bool
	Resized bool
	Width   int
	Height  int

	// Relative mouse motion and wheel movement accumulated this frame.
	MouseDX float32
	MouseDY float32
	WheelY  float32

	pressed map[sdl.Scancode]bool
}

// Pressed reports whether key went down this frame.
func (f *Frame) Pressed(key sdl.Scancode) bool {
	return f.pressed[key]
}

// Input polls SDL events.
type Input struct {
	frame Frame
	keys  []uint8
}

// New creates an input handler.
func New() *Input {
	return &Input{frame: Frame{pressed: make(map[sdl.Scancode]bool)}}
}

// Update drains the SDL event queue and returns the frame state.
// The returned frame is reused by the next call.
func (i *Input) Update() *Frame {
	f := &i.frame
	f.Quit, f.Resized = false, false
	f.MouseDX, f.MouseDY, f.WheelY = 0, 0, 0
	clear(f.pressed)

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				f.Resized = true
				f.Width, f.Height = int(e.Data1), int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				f.pressed[e.Keysym.Scancode] = true
			}

		case *sdl.MouseMotionEvent:
			f.MouseDX += float32(e.XRel)
			f.MouseDY += float32(e.YRel)

		case *sdl.MouseWheelEvent:
			f.WheelY += float32(e.Y)
		}
	}

	i.keys = sdl.GetKeyboardState()
	return f
}

// Held reports whether key is currently down.
func (i *Input) Held(key sdl.Scancode) bool {
	return int(key) < len(i.keys) && i.keys[key] != 0
}
