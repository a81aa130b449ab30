// Package render draws the particle cloud from the two simulated position
// textures. Points renders on the GPU through raylib; Raster is a CPU
// equivalent used for headless runs and snapshots.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/morph/camera"
)

// Debug panel ranges.
const (
	MinStrength, MaxStrength = 0, 2
	MinSpeed, MaxSpeed       = 0, 1
	MinSize, MaxSize         = 1, 50
	MinSlider, MaxSlider     = 0, 1
)

// Params are the user-tunable point-cloud parameters.
type Params struct {
	Strength float32 `json:"strength"` // Noise displacement strength
	Speed    float32 `json:"speed"`    // Noise evolution speed
	Size     float32 `json:"size"`     // Point size in pixels at the default camera distance
	Slider   float32 `json:"slider"`   // 0 = cube, 1 = portrait
}

// Clamp returns p with every field limited to its panel range.
func (p Params) Clamp() Params {
	return Params{
		Strength: clamp(p.Strength, MinStrength, MaxStrength),
		Speed:    clamp(p.Speed, MinSpeed, MaxSpeed),
		Size:     clamp(p.Size, MinSize, MaxSize),
		Slider:   clamp(p.Slider, MinSlider, MaxSlider),
	}
}

// Uniforms is everything a Stage reads in one frame. T is the backend's
// texture handle.
type Uniforms[T any] struct {
	Params
	Time      float32 // Seconds since the frame loop started
	Position1 T       // Cube variable, latest step
	Position2 T       // Portrait variable, latest step
}

// Stage draws frames. Implementations own their output surface.
type Stage[T any] interface {
	// Render draws the particle cloud, then overlay (may be nil).
	Render(u *Uniforms[T], cam *camera.Orbit, overlay func())

	// RenderStatus draws a status message instead of the cloud.
	RenderStatus(status string, overlay func())

	// Resize updates the output surface. width and height are in logical
	// pixels; pixelRatio scales them to device pixels.
	Resize(width, height int, pixelRatio float32)

	Unload()
}

// Noise is a 3D noise source such as opensimplex.Noise.
type Noise interface {
	Eval3(x, y, z float64) float64
}

// Noise field offsets decorrelating the three displacement axes.
const (
	noiseScale   = 1.5
	noiseOffsetY = 31.4
	noiseOffsetZ = 47.2
	noiseGain    = 0.2
)

// Displace offsets p by a noise field that evolves with time·Speed.
// It mirrors displace() in the points vertex shader.
func Displace(p mgl32.Vec3, time float32, params Params, n Noise) mgl32.Vec3 {
	if params.Strength == 0 {
		return p
	}
	t := float64(time * params.Speed)
	x := float64(p.X()) * noiseScale
	y := float64(p.Y()) * noiseScale
	z := float64(p.Z()) * noiseScale

	d := mgl32.Vec3{
		float32(n.Eval3(x, y, z+t)),
		float32(n.Eval3(x+noiseOffsetY, y, z+t)),
		float32(n.Eval3(x, y+noiseOffsetZ, z+t)),
	}
	return p.Add(d.Mul(params.Strength * noiseGain))
}

// Blend writes (1-t)·a + t·b into dst. All slices must have equal length.
func Blend(dst, a, b []float32, t float32) {
	n := len(dst)
	va := blas32.Vector{N: n, Inc: 1, Data: a}
	vb := blas32.Vector{N: n, Inc: 1, Data: b}
	vd := blas32.Vector{N: n, Inc: 1, Data: dst}

	blas32.Copy(va, vd)    // dst = a
	blas32.Scal(1-t, vd)   // dst = (1-t)*a
	blas32.Axpy(t, vb, vd) // dst = (1-t)*a + t*b
}

// PointSize returns the on-screen diameter in device pixels of a point at
// the given view depth. It mirrors the points vertex shader.
func PointSize(size, pixelRatio, depth float32) float32 {
	if depth < 1e-4 {
		depth = 1e-4
	}
	px := size * pixelRatio * 3 / depth
	if px < 1 {
		px = 1
	}
	return px
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
