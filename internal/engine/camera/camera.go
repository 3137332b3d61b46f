// Package camera provides the first-person fly camera used by the viewer.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a direction of keyboard travel.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// FirstPerson is a yaw/pitch camera that flies freely through the scene.
type FirstPerson struct {
	Position mgl32.Vec3
	WorldUp  mgl32.Vec3

	// Euler angles in degrees. Yaw -90 looks down -Z.
	Yaw   float32
	Pitch float32

	// Zoom is the vertical field of view in degrees.
	Zoom    float32
	MinZoom float32
	MaxZoom float32

	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel

	Near, Far float32

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3
}

// New creates a camera at position looking down -Z.
func New(position mgl32.Vec3) *FirstPerson {
	c := &FirstPerson{
		Position:    position,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Zoom:        45,
		MinZoom:     1,
		MaxZoom:     45,
		Speed:       2.5,
		Sensitivity: 0.1,
		Near:        0.1,
		Far:         1000,
	}
	c.updateVectors()
	return c
}

// Front returns the unit view direction.
func (c *FirstPerson) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FirstPerson) Right() mgl32.Vec3 { return c.right }

// ViewMatrix returns the look-at matrix for the current pose.
func (c *FirstPerson) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *FirstPerson) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, c.Near, c.Far)
}

// ProcessKeyboard moves the camera for dt seconds in direction.
func (c *FirstPerson) ProcessKeyboard(dir Movement, dt float32) {
	v := c.Speed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Mul(v))
	case Backward:
		c.Position = c.Position.Sub(c.front.Mul(v))
	case Left:
		c.Position = c.Position.Sub(c.right.Mul(v))
	case Right:
		c.Position = c.Position.Add(c.right.Mul(v))
	case Up:
		c.Position = c.Position.Add(c.WorldUp.Mul(v))
	case Down:
		c.Position = c.Position.Sub(c.WorldUp.Mul(v))
	}
}

// ProcessMouseMovement turns the camera by a mouse delta in pixels.
// Pitch is clamped short of straight up and down.
func (c *FirstPerson) ProcessMouseMovement(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
	c.updateVectors()
}

// ProcessMouseScroll zooms by narrowing or widening the field of view.
func (c *FirstPerson) ProcessMouseScroll(dy float32) {
	c.Zoom = mgl32.Clamp(c.Zoom-dy, c.MinZoom, c.MaxZoom)
}

// FitToBounds places the camera in front of a box so it fills the view,
// and scales movement speed to the box size.
func (c *FirstPerson) FitToBounds(center mgl32.Vec3, radius float32) {
	if radius <= 0 {
		return
	}
	half := mgl32.DegToRad(c.Zoom) / 2
	dist := radius / math32.Sin(half)

	c.Yaw = -90
	c.Pitch = 0
	c.updateVectors()
	c.Position = center.Sub(c.front.Mul(dist))
	c.Speed = radius
	c.Far = math32.Max(c.Far, dist+radius*4)
	c.Near = math32.Max(0.01, radius/1000)
}

func (c *FirstPerson) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	c.front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(c.WorldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
