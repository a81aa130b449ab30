package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/morph/shaders"
)

// Inputs is the typed uniform block of a simulation program.
type Inputs struct {
	Time     float32 // Elapsed seconds; only updated when UsesTime is set
	UsesTime bool    // Whether the frame loop feeds Time each tick
	Twist    float32 // Peak wobble rotation per step (radians)
}

// StepContext is what a CPU program sees while computing one texel.
type StepContext struct {
	Self   Sampler            // Previous frame of the variable being updated
	Deps   map[string]Sampler // Previous frames of all dependencies, by variable name
	Inputs Inputs
}

// StepFunc computes the next value of texel (x, y).
type StepFunc func(ctx *StepContext, x, y int) [4]float32

// Program is one position update, expressed for both backends.
type Program struct {
	Name string

	// Fragment returns the GLSL fragment shader for a variable whose
	// previous frame is bound to the named sampler.
	Fragment func(sampler string) string

	// Step is the CPU equivalent of Fragment.
	Step StepFunc
}

// wobble rotates the previous position around the Y axis by Twist·cos(Time).
// With Time held at zero and Twist zero it is the identity.
func wobble(ctx *StepContext, x, y int) [4]float32 {
	p := ctx.Self.Fetch(x, y)
	a := float64(ctx.Inputs.Twist) * math.Cos(float64(ctx.Inputs.Time))
	r := mgl32.Rotate3DY(float32(a)).Mul3x1(mgl32.Vec3{p[0], p[1], p[2]})
	return [4]float32{r[0], r[1], r[2], 1}
}

// CubeProgram advances the cube lattice variable.
var CubeProgram = Program{
	Name:     "cube_wobble",
	Fragment: shaders.Simulation,
	Step:     wobble,
}

// ImageProgram advances the portrait variable. It shares the cube's update
// but is normally run with zero twist, which holds the portrait still.
var ImageProgram = Program{
	Name:     "image_hold",
	Fragment: shaders.Simulation,
	Step:     wobble,
}
