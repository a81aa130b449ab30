// Package ui provides the descriptor-driven debug panel and HUD.
// Tunable parameters are described by metadata (label, range, step, accessors)
// so the panel layout follows the parameter block rather than hard-coded widgets.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/render"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetSlider  WidgetType = iota // Draggable slider over Range, quantized to Step
	WidgetText                      // Read-only value with format string
	WidgetSection                   // Section header
)

// FieldRange defines the value range for sliders.
type FieldRange struct {
	Min float32
	Max float32
}

// FieldDescriptor defines how to display and edit a single parameter.
type FieldDescriptor struct {
	ID     string     // Unique identifier for the field
	Label  string     // Display label
	Widget WidgetType // How to render
	Format string     // Printf format for the value (e.g., "%.3f")
	Range  FieldRange // Slider range
	Step   float32    // Slider resolution (0 = continuous)

	Getter func(*render.Params) float32
	Setter func(*render.Params, float32)
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID     string            // Unique identifier
	Title  string            // Panel title (optional)
	Fields []FieldDescriptor // Fields in order
	Width  int32             // Panel width
	Anchor PanelAnchor       // Where to position
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	HUDText        rl.Color
	HUDMuted       rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	ValueWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme. HUD colors are dark to read on
// the white background.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		HUDText:        rl.Color{R: 30, G: 30, B: 36, A: 255},
		HUDMuted:       rl.Gray,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     110,
		SliderHeight:   14,
		ValueWidth:     50,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
