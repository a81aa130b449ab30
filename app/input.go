package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/ui"
)

// Controls is what input handling may act on.
type Controls struct {
	Camera *camera.Orbit
	Panel  *ui.DebugPanel // Nil when no panel is shown

	// Resize propagates a new logical size and pixel ratio.
	Resize func(width, height int, pixelRatio float32) bool

	RotateSpeed     float32 // Radians per dragged pixel
	ZoomSpeed       float32 // Distance scale per wheel notch
	DefaultDistance float32
}

// Input polls a device once per frame.
type Input interface {
	Handle(c *Controls)
}

// RaylibInput reads keyboard, mouse and window events from raylib.
type RaylibInput struct {
	width, height int
	dragging      bool
}

// NewRaylibInput creates input handling for the current window.
func NewRaylibInput() *RaylibInput {
	return &RaylibInput{
		width:  rl.GetScreenWidth(),
		height: rl.GetScreenHeight(),
	}
}

// Handle processes one frame of input.
func (in *RaylibInput) Handle(c *Controls) {
	in.handleResize(c)

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) && c.Panel != nil {
		c.Panel.Toggle()
	}

	in.handleCameraInput(c)
}

// handleResize checks for window resize and propagates new dimensions.
func (in *RaylibInput) handleResize(c *Controls) {
	if !rl.IsWindowResized() {
		return
	}
	w := rl.GetScreenWidth()
	h := rl.GetScreenHeight()
	if w == in.width && h == in.height {
		return
	}
	// A minimized window reports zero; keep the last size until it returns.
	if c.Resize != nil && c.Resize(w, h, PixelRatio()) {
		in.width, in.height = w, h
	}
}

// handleCameraInput processes orbit, zoom and reset.
func (in *RaylibInput) handleCameraInput(c *Controls) {
	if c.Camera == nil {
		return
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !overPanel(c.Panel, mouse, int32(in.width)) {
		in.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		in.dragging = false
	}
	if in.dragging {
		delta := rl.GetMouseDelta()
		c.Camera.Rotate(-delta.X*c.RotateSpeed, delta.Y*c.RotateSpeed)
	}

	// Wheel up moves the camera in
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Camera.ZoomBy(1 - wheel*c.ZoomSpeed)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		c.Camera.Reset(c.DefaultDistance)
	}
}

// overPanel reports whether the pointer is over a visible debug panel.
func overPanel(p *ui.DebugPanel, mouse rl.Vector2, screenW int32) bool {
	if p == nil || !p.IsVisible() {
		return false
	}
	x, y := p.Origin(screenW)
	r := rl.NewRectangle(float32(x), float32(y), float32(p.Descriptor.Width), float32(p.Height()))
	return rl.CheckCollisionPointRec(mouse, r)
}

// PixelRatio returns the window's DPI scale.
func PixelRatio() float32 {
	scale := rl.GetWindowScaleDPI()
	if scale.X <= 0 {
		return 1
	}
	return scale.X
}
