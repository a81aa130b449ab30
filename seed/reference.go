// Package seed builds the initial position textures for the simulation:
// a cube lattice and a set of points sampled from the dark pixels of a portrait.
//
// Seed textures are S wide and S² tall, one RGBA float sample per particle,
// so particle i lives at texel (i mod S, floor(i/S)).
package seed

import "math"

// Reference returns the fixed texture lookup coordinate of particle i
// for a lattice of s segments per edge.
func Reference(i, s int) (x, y float32) {
	x = float32(i%s) / float32(s)
	y = float32(i/s) / float32(s*s)
	return x, y
}

// References returns the interleaved reference coordinates [x0, y0, x1, y1, ...]
// of all s³ particles.
func References(s int) []float32 {
	n := s * s * s
	refs := make([]float32, n*2)
	for i := 0; i < n; i++ {
		refs[i*2], refs[i*2+1] = Reference(i, s)
	}
	return refs
}

// TexelIndex inverts Reference: it returns the particle index addressed by
// a reference coordinate, rounding to the nearest texel.
func TexelIndex(x, y float32, s int) int {
	col := int(math.Round(float64(x) * float64(s)))
	row := int(math.Round(float64(y) * float64(s*s)))
	return row*s + col
}
