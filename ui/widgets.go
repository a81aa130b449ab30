package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 4
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled slider and returns the raw slider value and
// the new Y position.
func (r *Renderer) DrawSlider(x, y, width int32, label, value string, current float32, rng FieldRange) (float32, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	sliderW := width - r.Theme.ValueWidth - 5
	rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(sliderW), Height: float32(r.Theme.SliderHeight)}
	next := gui.SliderBar(rect, "", "", current, rng.Min, rng.Max)
	rl.DrawText(value, x+sliderW+5, y+1, r.Theme.FontSize, r.Theme.ValueColor)

	return next, y + r.Theme.SliderHeight + 4
}

// Draw renders the panel and applies slider edits. It does nothing while
// the panel is hidden.
func (p *DebugPanel) Draw(screenW int32) {
	if !p.visible {
		return
	}

	r := p.renderer
	x, y := p.Origin(screenW)
	r.DrawPanel(x, y, p.Descriptor.Width, p.Height())

	inner := p.Descriptor.Width - r.Theme.Padding*2
	x += r.Theme.Padding
	y += r.Theme.Padding
	if p.Descriptor.Title != "" {
		y = r.DrawSectionHeader(x, y, p.Descriptor.Title)
	}

	for _, fd := range p.Descriptor.Fields {
		switch fd.Widget {
		case WidgetSlider:
			cur := fd.Getter(p.params)
			next, ny := r.DrawSlider(x, y, inner, fd.Label, p.FormatValue(fd), cur, fd.Range)
			if next != cur {
				p.Set(fd.ID, next)
			}
			y = ny
		case WidgetText:
			y = r.DrawLabelValue(x, y, fd.Label, p.FormatValue(fd))
		case WidgetSection:
			y = r.DrawSectionHeader(x, y, fd.Label)
		}
	}
}
