package sim

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// gpuVariable holds the raylib resources of one variable.
type gpuVariable struct {
	shader    rl.Shader
	targets   [2]rl.RenderTexture2D
	resLoc    int32
	timeLoc   int32
	twistLoc  int32
	depLocs   []int32
	allocated int // number of targets successfully created
}

// GPU runs simulation programs as fragment shaders rendering into float
// render textures, ping-ponging between two targets per variable.
// All methods must be called from the thread that owns the GL context.
type GPU struct {
	registry
	states []*gpuVariable
	cur    int
}

// NewGPU creates a GPU computer for textures of the given size.
// A raylib window must already be open.
func NewGPU(width, height int) *GPU {
	return &GPU{registry: registry{width: width, height: height}}
}

// AddVariable registers a variable seeded from seed.
func (g *GPU) AddVariable(name string, seed *Texture, program Program) *Variable {
	return g.add(name, seed, program)
}

// SetDependencies declares which variables v reads each step. Each
// dependency is bound to a sampler uniform named after it.
func (g *GPU) SetDependencies(v *Variable, deps ...*Variable) {
	v.deps = append(v.deps[:0], deps...)
}

// Init compiles each variable's program and uploads its seed.
func (g *GPU) Init() error {
	if err := g.validate(); err != nil {
		return err
	}

	g.states = make([]*gpuVariable, 0, len(g.vars))
	for _, v := range g.vars {
		st, err := g.initVariable(v)
		if st != nil {
			g.states = append(g.states, st)
		}
		if err != nil {
			g.Unload()
			return err
		}
	}

	g.cur = 0
	g.initialized = true
	return nil
}

func (g *GPU) initVariable(v *Variable) (*gpuVariable, error) {
	st := &gpuVariable{}
	st.shader = rl.LoadShaderFromMemory("", v.Program.Fragment(v.Name))

	// A failed compile falls back to raylib's default shader, which has none
	// of our uniforms.
	st.resLoc = rl.GetShaderLocation(st.shader, "resolution")
	if st.resLoc < 0 {
		return st, &InitError{Variable: v.Name, Reason: fmt.Sprintf("program %q failed to compile", v.Program.Name)}
	}
	st.timeLoc = rl.GetShaderLocation(st.shader, "uTime")
	st.twistLoc = rl.GetShaderLocation(st.shader, "uTwist")

	for _, d := range v.deps {
		loc := rl.GetShaderLocation(st.shader, d.Name)
		if loc < 0 {
			return st, &InitError{Variable: v.Name, Reason: fmt.Sprintf("program %q has no sampler %q", v.Program.Name, d.Name)}
		}
		st.depLocs = append(st.depLocs, loc)
	}

	for i := range st.targets {
		var data []float32
		if i == 0 {
			data = v.Seed.Data
		}
		target, err := loadFloatTarget(int32(g.width), int32(g.height), data)
		if err != nil {
			return st, &InitError{Variable: v.Name, Reason: err.Error()}
		}
		rl.SetTextureWrap(target.Texture, textureWrap(v.WrapS))
		rl.SetTextureFilter(target.Texture, rl.FilterPoint)
		st.targets[i] = target
		st.allocated++
	}

	// raylib exposes one wrap mode per texture; WrapT follows WrapS on the GPU.
	return st, nil
}

// floatBytes views RGBA float data as the byte slice raylib images carry.
// The result aliases data.
func floatBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// loadFloatTarget creates a framebuffer with a single RGBA32F color attachment.
// data may be nil for a zeroed texture.
func loadFloatTarget(width, height int32, data []float32) (rl.RenderTexture2D, error) {
	var target rl.RenderTexture2D

	if data == nil {
		data = make([]float32, int(width)*int(height)*4)
	}
	img := rl.NewImage(floatBytes(data), width, height, 1, rl.UncompressedR32g32b32a32)

	target.ID = rl.LoadFramebuffer()
	if target.ID == 0 {
		return target, fmt.Errorf("framebuffer allocation failed")
	}

	rl.EnableFramebuffer(target.ID)
	defer rl.DisableFramebuffer()

	// The image only borrows data; the pixels are copied to the GPU here.
	target.Texture = rl.LoadTextureFromImage(img)
	if target.Texture.ID == 0 {
		rl.UnloadFramebuffer(target.ID)
		return target, fmt.Errorf("float texture allocation failed (RGBA32F unsupported?)")
	}

	rl.FramebufferAttach(target.ID, target.Texture.ID, rl.AttachmentColorChannel0, rl.AttachmentTexture2d, 0)
	if !rl.FramebufferComplete(target.ID) {
		rl.UnloadTexture(target.Texture)
		rl.UnloadFramebuffer(target.ID)
		return target, fmt.Errorf("framebuffer incomplete")
	}
	return target, nil
}

func textureWrap(w Wrap) rl.TextureWrapMode {
	if w == WrapClamp {
		return rl.WrapClamp
	}
	return rl.WrapRepeat
}

// Compute renders one step of every variable into its back target.
func (g *GPU) Compute() {
	if !g.initialized {
		return
	}
	next := 1 - g.cur
	res := []float32{float32(g.width), float32(g.height)}

	for i, v := range g.vars {
		st := g.states[i]

		rl.BeginTextureMode(st.targets[next])
		rl.ClearBackground(rl.Blank)
		rl.BeginShaderMode(st.shader)

		rl.SetShaderValue(st.shader, st.resLoc, res, rl.ShaderUniformVec2)
		rl.SetShaderValue(st.shader, st.timeLoc, []float32{v.Inputs.Time}, rl.ShaderUniformFloat)
		rl.SetShaderValue(st.shader, st.twistLoc, []float32{v.Inputs.Twist}, rl.ShaderUniformFloat)
		for j, d := range v.deps {
			rl.SetShaderValueTexture(st.shader, st.depLocs[j], g.states[d.index].targets[g.cur].Texture)
		}

		rl.DrawRectangle(0, 0, int32(g.width), int32(g.height), rl.White)

		rl.EndShaderMode()
		rl.EndTextureMode()
	}

	g.cur = next
}

// Current returns the texture holding v's latest step.
func (g *GPU) Current(v *Variable) rl.Texture2D {
	if !g.initialized {
		return rl.Texture2D{}
	}
	return g.states[v.index].targets[g.cur].Texture
}

// Unload releases shaders and render targets.
func (g *GPU) Unload() {
	for _, st := range g.states {
		rl.UnloadShader(st.shader)
		for i := 0; i < st.allocated; i++ {
			rl.UnloadRenderTexture(st.targets[i])
		}
	}
	g.states = nil
	g.initialized = false
}

// Download copies v's latest step back into CPU memory.
func (g *GPU) Download(v *Variable) (*Texture, error) {
	if !g.initialized {
		return nil, fmt.Errorf("sim: download %q before init", v.Name)
	}
	img := rl.LoadImageFromTexture(g.Current(v))
	defer rl.UnloadImage(img)

	if img.Format != rl.UncompressedR32g32b32a32 || int(img.Width) != g.width || int(img.Height) != g.height {
		return nil, fmt.Errorf("sim: download %q: unexpected image %dx%d format %d", v.Name, img.Width, img.Height, img.Format)
	}
	t := NewTexture(g.width, g.height)
	copy(floatBytes(t.Data), unsafe.Slice((*byte)(img.Data), len(t.Data)*4))
	return t, nil
}
