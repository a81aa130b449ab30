package sim

// CPU runs simulation programs on the CPU. It backs headless runs and tests.
type CPU struct {
	registry
	buffers [][2]*Texture // per variable: [current, next]
	cur     int
}

// NewCPU creates a CPU computer for textures of the given size.
func NewCPU(width, height int) *CPU {
	return &CPU{registry: registry{width: width, height: height}}
}

// AddVariable registers a variable seeded from seed.
func (c *CPU) AddVariable(name string, seed *Texture, program Program) *Variable {
	return c.add(name, seed, program)
}

// SetDependencies declares which variables v reads each step.
func (c *CPU) SetDependencies(v *Variable, deps ...*Variable) {
	v.deps = append(v.deps[:0], deps...)
}

// Init validates variables and copies each seed into its ping-pong pair.
func (c *CPU) Init() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.buffers = make([][2]*Texture, len(c.vars))
	for i, v := range c.vars {
		c.buffers[i] = [2]*Texture{v.Seed.Clone(), NewTexture(c.width, c.height)}
	}
	c.cur = 0
	c.initialized = true
	return nil
}

// Compute runs one step of every variable.
func (c *CPU) Compute() {
	if !c.initialized {
		return
	}
	next := 1 - c.cur

	for i, v := range c.vars {
		ctx := &StepContext{
			Self:   Sampler{Tex: c.buffers[i][c.cur], WrapS: v.WrapS, WrapT: v.WrapT},
			Deps:   make(map[string]Sampler, len(v.deps)),
			Inputs: v.Inputs,
		}
		for _, d := range v.deps {
			ctx.Deps[d.Name] = Sampler{Tex: c.buffers[d.index][c.cur], WrapS: d.WrapS, WrapT: d.WrapT}
		}

		out := c.buffers[i][next]
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				texel := v.Program.Step(ctx, x, y)
				o := (y*c.width + x) * 4
				copy(out.Data[o:o+4], texel[:])
			}
		}
	}

	c.cur = next
}

// Current returns v's latest texture. Callers must treat it as read-only.
func (c *CPU) Current(v *Variable) *Texture {
	if !c.initialized {
		return v.Seed
	}
	return c.buffers[v.index][c.cur]
}

// Unload drops the buffers.
func (c *CPU) Unload() {
	c.buffers = nil
	c.initialized = false
}
