// Package shaders embeds the GLSL sources for the simulation and point-cloud passes.
package shaders

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed simulation.fs
var simulationTemplate string

//go:embed points.vs
var PointsVertex string

//go:embed points.fs
var PointsFragment string

var simulation = template.Must(template.New("simulation").Parse(simulationTemplate))

// Simulation returns the position update fragment shader for a variable
// whose previous frame is bound to the given sampler uniform.
func Simulation(sampler string) string {
	var b strings.Builder
	if err := simulation.Execute(&b, struct{ Sampler string }{sampler}); err != nil {
		panic("shaders: rendering simulation template: " + err.Error())
	}
	return b.String()
}
