package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	Node
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32

	// FPS controls, degrees
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
}

func NewCamera(name string) *Camera {
	return &Camera{
		Node:        NewNode(name),
		Target:      mgl32.Vec3{0, 0, 100},
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         math.Pi / 2.5,
		Aspect:      4.0 / 3.0,
		Near:        1,
		Far:         3000,
		Speed:       100,
		Sensitivity: 0.1,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.AbsolutePosition(), c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewDirection is the normalized vector from the camera to its target.
func (c *Camera) ViewDirection() mgl32.Vec3 {
	d := c.Target.Sub(c.AbsolutePosition())
	if d.Len() == 0 {
		return d
	}
	return d.Normalize()
}

func (c *Camera) Forward() mgl32.Vec3 {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	return mgl32.Vec3{
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}.Normalize()
}

// Look turns the camera by a mouse delta in pixels.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw -= dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity

	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
	c.syncTarget()
}

// Move translates along the view (forward) and its right vector (strafe).
func (c *Camera) Move(forward, strafe, dt float32) {
	fwd := c.Forward()
	right := fwd.Cross(c.Up).Normalize()

	moveDir := fwd.Mul(forward).Add(right.Mul(strafe))
	if moveDir.Len() > 0 {
		c.Local.Position = c.Local.Position.Add(moveDir.Normalize().Mul(c.Speed * dt))
	}
	c.syncTarget()
}

func (c *Camera) syncTarget() {
	c.Target = c.AbsolutePosition().Add(c.Forward())
}
