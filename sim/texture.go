// Package sim advances GPU-style position textures one step per frame.
//
// A Computer owns a set of Variables. Each Variable is a float RGBA texture
// seeded once and then rewritten every Compute call by its Program, reading
// the previous frame's textures of the variables it depends on. Two backends
// implement Computer: CPU (headless runs and tests) and GPU (raylib render
// textures driven by fragment shaders).
package sim

import "math"

// Wrap selects how out-of-range texel coordinates are addressed.
type Wrap int

const (
	WrapRepeat Wrap = iota // Toroidal: coordinates wrap to the opposite edge
	WrapClamp              // Coordinates clamp to the nearest edge
)

// Texture is a CPU-side RGBA float texture, row-major.
type Texture struct {
	Width, Height int
	Data          []float32 // 4 floats per texel
}

// NewTexture allocates a zeroed texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height*4),
	}
}

// Clone returns a deep copy.
func (t *Texture) Clone() *Texture {
	c := &Texture{Width: t.Width, Height: t.Height, Data: make([]float32, len(t.Data))}
	copy(c.Data, t.Data)
	return c
}

// Texel returns the RGBA sample at integer coordinates, which must be in range.
func (t *Texture) Texel(x, y int) [4]float32 {
	o := (y*t.Width + x) * 4
	return [4]float32{t.Data[o], t.Data[o+1], t.Data[o+2], t.Data[o+3]}
}

// Sampler reads a texture with per-axis wrap modes.
type Sampler struct {
	Tex          *Texture
	WrapS, WrapT Wrap
}

// Fetch returns the texel at (x, y) after applying the wrap modes.
func (s Sampler) Fetch(x, y int) [4]float32 {
	x = address(x, s.Tex.Width, s.WrapS)
	y = address(y, s.Tex.Height, s.WrapT)
	return s.Tex.Texel(x, y)
}

// SampleUV returns the texel nearest to normalized coordinates (u, v).
// Coordinates on a texel's lower edge select that texel.
func (s Sampler) SampleUV(u, v float32) [4]float32 {
	x := int(math.Floor(float64(u)*float64(s.Tex.Width) + 0.5))
	y := int(math.Floor(float64(v)*float64(s.Tex.Height) + 0.5))
	return s.Fetch(x, y)
}

func address(i, size int, w Wrap) int {
	switch w {
	case WrapClamp:
		if i < 0 {
			return 0
		}
		if i >= size {
			return size - 1
		}
		return i
	default:
		return ((i % size) + size) % size
	}
}
