package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func TestNewLooksDownNegativeZ(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 3})

	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("front = %v", c.Front())
	}
	if !c.Right().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("right = %v", c.Right())
	}

	// The origin is straight ahead at distance 3.
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !p.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -3}, eps) {
		t.Errorf("origin in view space = %v", p)
	}
}

func TestProcessKeyboard(t *testing.T) {
	tests := []struct {
		dir  Movement
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, -2}},
		{Backward, mgl32.Vec3{0, 0, 2}},
		{Left, mgl32.Vec3{-2, 0, 0}},
		{Right, mgl32.Vec3{2, 0, 0}},
		{Up, mgl32.Vec3{0, 2, 0}},
		{Down, mgl32.Vec3{0, -2, 0}},
	}

	for _, tt := range tests {
		c := New(mgl32.Vec3{})
		c.Speed = 4
		c.ProcessKeyboard(tt.dir, 0.5)
		if !c.Position.ApproxEqualThreshold(tt.want, eps) {
			t.Errorf("move %d: position = %v, want %v", tt.dir, c.Position, tt.want)
		}
	}
}

func TestProcessMouseMovementClampsPitch(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ProcessMouseMovement(0, -10000)
	if c.Pitch != 89 {
		t.Errorf("pitch = %v, want 89", c.Pitch)
	}
	c.ProcessMouseMovement(0, 10000)
	if c.Pitch != -89 {
		t.Errorf("pitch = %v, want -89", c.Pitch)
	}

	c = New(mgl32.Vec3{})
	c.ProcessMouseMovement(900, 0) // 90 degrees to the right
	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("front after yaw = %v", c.Front())
	}
}

func TestProcessMouseScroll(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ProcessMouseScroll(10)
	if c.Zoom != 35 {
		t.Errorf("zoom = %v, want 35", c.Zoom)
	}
	c.ProcessMouseScroll(100)
	if c.Zoom != 1 {
		t.Errorf("zoom = %v, want 1", c.Zoom)
	}
	c.ProcessMouseScroll(-100)
	if c.Zoom != 45 {
		t.Errorf("zoom = %v, want 45", c.Zoom)
	}
}

func TestFitToBounds(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ProcessMouseMovement(300, 200)

	center := mgl32.Vec3{10, 5, 0}
	c.FitToBounds(center, 2)

	if c.Pitch != 0 || c.Yaw != -90 {
		t.Errorf("orientation = %v/%v", c.Yaw, c.Pitch)
	}
	wantDist := 2 / math32.Sin(mgl32.DegToRad(22.5))
	if d := c.Position.Sub(center).Len(); math32.Abs(d-wantDist) > 1e-3 {
		t.Errorf("distance = %v, want %v", d, wantDist)
	}
	if c.Speed != 2 {
		t.Errorf("speed = %v", c.Speed)
	}

	before := c.Position
	c.FitToBounds(center, 0)
	if c.Position != before {
		t.Error("zero radius must leave the camera alone")
	}
}

func TestProjectionAspect(t *testing.T) {
	c := New(mgl32.Vec3{})
	if c.Projection(0) != c.Projection(1) {
		t.Error("non-positive aspect should fall back to 1")
	}
}
