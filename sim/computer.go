package sim

import (
	"errors"
	"fmt"
)

// ErrInit is wrapped by every initialization failure.
var ErrInit = errors.New("sim: initialization failed")

// InitError describes why a Computer could not be initialized.
type InitError struct {
	Variable string // Empty when the failure is not tied to one variable
	Reason   string
}

func (e *InitError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("sim: init: %s", e.Reason)
	}
	return fmt.Sprintf("sim: init %q: %s", e.Variable, e.Reason)
}

// Unwrap lets errors.Is match ErrInit.
func (e *InitError) Unwrap() error { return ErrInit }

// Variable is one simulated texture.
type Variable struct {
	Name         string
	Seed         *Texture
	Program      Program
	WrapS, WrapT Wrap
	Inputs       Inputs

	deps  []*Variable
	index int
}

// Computer advances a set of variables one step per Compute call.
// T is the backend's texture handle.
type Computer[T any] interface {
	// AddVariable registers a variable seeded from seed. Must precede Init.
	AddVariable(name string, seed *Texture, program Program) *Variable

	// SetDependencies declares which variables v reads each step.
	SetDependencies(v *Variable, deps ...*Variable)

	// Init validates the variables and allocates backend resources.
	Init() error

	// Compute runs every variable's program once. All programs read the
	// previous step; results become current only after all have run.
	Compute()

	// Current returns the texture holding v's latest step.
	Current(v *Variable) T

	// Unload releases backend resources.
	Unload()
}

// registry is the backend-independent half of a Computer.
type registry struct {
	width, height int
	vars          []*Variable
	initialized   bool
}

func (r *registry) add(name string, seed *Texture, program Program) *Variable {
	v := &Variable{
		Name:    name,
		Seed:    seed,
		Program: program,
		WrapS:   WrapClamp,
		WrapT:   WrapClamp,
		index:   len(r.vars),
	}
	r.vars = append(r.vars, v)
	return v
}

// validate checks everything Init needs regardless of backend.
func (r *registry) validate() error {
	if r.initialized {
		return &InitError{Reason: "already initialized"}
	}
	if r.width <= 0 || r.height <= 0 {
		return &InitError{Reason: fmt.Sprintf("invalid size %dx%d", r.width, r.height)}
	}
	if len(r.vars) == 0 {
		return &InitError{Reason: "no variables added"}
	}

	names := make(map[string]*Variable, len(r.vars))
	for _, v := range r.vars {
		if v.Name == "" {
			return &InitError{Reason: "variable without a name"}
		}
		if _, dup := names[v.Name]; dup {
			return &InitError{Variable: v.Name, Reason: "duplicate variable name"}
		}
		names[v.Name] = v
	}

	for _, v := range r.vars {
		if v.Seed == nil {
			return &InitError{Variable: v.Name, Reason: "missing seed texture"}
		}
		if v.Seed.Width != r.width || v.Seed.Height != r.height {
			return &InitError{Variable: v.Name, Reason: fmt.Sprintf(
				"seed is %dx%d, computer is %dx%d", v.Seed.Width, v.Seed.Height, r.width, r.height)}
		}
		if len(v.Seed.Data) != r.width*r.height*4 {
			return &InitError{Variable: v.Name, Reason: fmt.Sprintf(
				"seed holds %d floats, want %d", len(v.Seed.Data), r.width*r.height*4)}
		}
		if v.Program.Step == nil || v.Program.Fragment == nil {
			return &InitError{Variable: v.Name, Reason: "missing program"}
		}
		for _, d := range v.deps {
			if names[d.Name] != d {
				return &InitError{Variable: v.Name, Reason: fmt.Sprintf("depends on unregistered variable %q", d.Name)}
			}
		}
	}
	return nil
}
