package app

import (
	"fmt"
	"math"

	"github.com/dshills/keyhold/internal/dispatcher"
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// Built-in action ids.
const (
	ActionMoveForward = iota + 1
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionZoomIn
	ActionZoomOut
	ActionRotateLeft
	ActionRotateRight
)

// Per-tick amounts at speed 1.
const (
	MoveStep   = 0.1
	ZoomStep   = 1.02
	RotateStep = 2.0

	MinZoom = 0.1
	MaxZoom = 10.0
)

// Camera is a 2D viewer with a position, a zoom factor and a heading in
// degrees. Heading 0 looks along +Y. It is not safe for concurrent use.
type Camera struct {
	X, Y float64
	Zoom float64
	Yaw  float64
}

// NewCamera returns a camera at the origin with zoom 1.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

// Move moves forward along the heading and sideways to the right of it.
func (c *Camera) Move(forward, strafe float64) {
	rad := c.Yaw * math.Pi / 180
	sin, cos := math.Sincos(rad)
	c.X += forward*sin + strafe*cos
	c.Y += forward*cos - strafe*sin
}

// ZoomBy multiplies the zoom, clamped to [MinZoom, MaxZoom].
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.Zoom = min(max(c.Zoom*factor, MinZoom), MaxZoom)
}

// Rotate turns the heading clockwise by deg, normalized to [0, 360).
func (c *Camera) Rotate(deg float64) {
	yaw := math.Mod(c.Yaw+deg, 360)
	if yaw < 0 {
		yaw += 360
	}
	c.Yaw = yaw
}

// Reset returns the camera to its initial pose.
func (c *Camera) Reset() {
	*c = Camera{Zoom: 1}
}

func (c *Camera) String() string {
	return fmt.Sprintf("x=%.2f y=%.2f zoom=%.2f yaw=%.1f", c.X, c.Y, c.Zoom, c.Yaw)
}

// Builtins returns the built-in action table for a *Camera controller.
// Every action reads an optional "speed" param.
func Builtins() dispatcher.BuiltinMap {
	return dispatcher.BuiltinMap{
		ActionMoveForward: cameraAction(func(c *Camera, s float64) { c.Move(MoveStep*s, 0) }),
		ActionMoveBack:    cameraAction(func(c *Camera, s float64) { c.Move(-MoveStep*s, 0) }),
		ActionMoveLeft:    cameraAction(func(c *Camera, s float64) { c.Move(0, -MoveStep*s) }),
		ActionMoveRight:   cameraAction(func(c *Camera, s float64) { c.Move(0, MoveStep*s) }),
		ActionZoomIn:      cameraAction(func(c *Camera, s float64) { c.ZoomBy(math.Pow(ZoomStep, s)) }),
		ActionZoomOut:     cameraAction(func(c *Camera, s float64) { c.ZoomBy(math.Pow(ZoomStep, -s)) }),
		ActionRotateLeft:  cameraAction(func(c *Camera, s float64) { c.Rotate(-RotateStep * s) }),
		ActionRotateRight: cameraAction(func(c *Camera, s float64) { c.Rotate(RotateStep * s) }),
	}
}

func cameraAction(fn func(c *Camera, speed float64)) dispatcher.BuiltinFunc {
	return func(ctrl keymap.Controller, params keymap.Params, _ key.Event) {
		c, ok := ctrl.(*Camera)
		if !ok || c == nil {
			return
		}
		fn(c, speed(params))
	}
}

// speed reads the "speed" param, defaulting to 1.
func speed(p keymap.Params) float64 {
	switch v := p["speed"].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 1
}
