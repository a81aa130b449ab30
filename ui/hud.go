package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the frame-timing readout.
type HUDData struct {
	Particles int
	Tick      int64
	FPS       float64
	FrameMS   float64
	State     string
}

// ReadoutLines formats the HUD text, one entry per line.
func ReadoutLines(d HUDData) []string {
	return []string{
		fmt.Sprintf("%.0f FPS (%.1f ms)", d.FPS, d.FrameMS),
		fmt.Sprintf("Particles: %d | Tick: %d", d.Particles, d.Tick),
		d.State,
	}
}

// HUD renders the frame-timing readout in the top-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	t := h.renderer.Theme
	lines := ReadoutLines(data)

	rl.DrawText(lines[0], 10, 10, 20, t.HUDText)
	y := int32(35)
	for _, line := range lines[1:] {
		rl.DrawText(line, 10, y, 16, t.HUDMuted)
		y += 20
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.HUDMuted)
}
