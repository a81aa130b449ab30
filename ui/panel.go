package ui

import (
	"fmt"
	"math"

	"github.com/pthm-cable/morph/render"
)

// ParamFields describes the four point-cloud parameters.
func ParamFields() []FieldDescriptor {
	return []FieldDescriptor{
		{
			ID: "strength", Label: "Noise strength", Widget: WidgetSlider, Format: "%.3f",
			Range:  FieldRange{Min: render.MinStrength, Max: render.MaxStrength},
			Step:   0.001,
			Getter: func(p *render.Params) float32 { return p.Strength },
			Setter: func(p *render.Params, v float32) { p.Strength = v },
		},
		{
			ID: "speed", Label: "Noise speed", Widget: WidgetSlider, Format: "%.3f",
			Range:  FieldRange{Min: render.MinSpeed, Max: render.MaxSpeed},
			Step:   0.001,
			Getter: func(p *render.Params) float32 { return p.Speed },
			Setter: func(p *render.Params, v float32) { p.Speed = v },
		},
		{
			ID: "size", Label: "Particle size", Widget: WidgetSlider, Format: "%.3f",
			Range:  FieldRange{Min: render.MinSize, Max: render.MaxSize},
			Step:   0.001,
			Getter: func(p *render.Params) float32 { return p.Size },
			Setter: func(p *render.Params, v float32) { p.Size = v },
		},
		{
			ID: "slider", Label: "Slider", Widget: WidgetSlider, Format: "%.2f",
			Range:  FieldRange{Min: render.MinSlider, Max: render.MaxSlider},
			Step:   0.01,
			Getter: func(p *render.Params) float32 { return p.Slider },
			Setter: func(p *render.Params, v float32) { p.Slider = v },
		},
	}
}

// Quantize snaps v to the nearest multiple of step above min and clamps it
// to [min, max]. A zero step only clamps.
func Quantize(v float32, r FieldRange, step float32) float32 {
	if step > 0 {
		n := math.Round(float64(v-r.Min) / float64(step))
		v = r.Min + float32(n)*step
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	return v
}

// DebugPanel edits a render.Params in place.
type DebugPanel struct {
	Descriptor PanelDescriptor
	params     *render.Params
	visible    bool
	renderer   *Renderer
}

// NewDebugPanel creates a visible panel editing params.
func NewDebugPanel(params *render.Params) *DebugPanel {
	return &DebugPanel{
		Descriptor: PanelDescriptor{
			ID:     "debug",
			Title:  "Debug",
			Fields: ParamFields(),
			Width:  300,
			Anchor: AnchorTopRight,
		},
		params:   params,
		visible:  true,
		renderer: NewRenderer(),
	}
}

// Set quantizes v and writes it to the field with the given ID.
// It reports whether the field exists.
func (p *DebugPanel) Set(id string, v float32) bool {
	for _, fd := range p.Descriptor.Fields {
		if fd.ID != id || fd.Setter == nil {
			continue
		}
		fd.Setter(p.params, Quantize(v, fd.Range, fd.Step))
		return true
	}
	return false
}

// Value returns the current value of the field with the given ID.
func (p *DebugPanel) Value(id string) (float32, bool) {
	for _, fd := range p.Descriptor.Fields {
		if fd.ID == id && fd.Getter != nil {
			return fd.Getter(p.params), true
		}
	}
	return 0, false
}

// Toggle switches panel visibility.
func (p *DebugPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *DebugPanel) IsVisible() bool {
	return p.visible
}

// Height returns the panel height in pixels for the current theme.
func (p *DebugPanel) Height() int32 {
	t := p.renderer.Theme
	rows := int32(len(p.Descriptor.Fields))
	h := t.Padding*2 + rows*(t.LineHeight+t.SliderHeight+4)
	if p.Descriptor.Title != "" {
		h += t.LineHeight + 4
	}
	return h
}

// Origin returns the panel's top-left corner for a screen of the given width.
func (p *DebugPanel) Origin(screenW int32) (x, y int32) {
	margin := int32(10)
	if p.Descriptor.Anchor == AnchorTopRight {
		return screenW - p.Descriptor.Width - margin, margin
	}
	return margin, margin
}

// FormatValue renders a field's current value with its format.
func (p *DebugPanel) FormatValue(fd FieldDescriptor) string {
	if fd.Getter == nil {
		return ""
	}
	format := fd.Format
	if format == "" {
		format = "%.2f"
	}
	return fmt.Sprintf(format, fd.Getter(p.params))
}
