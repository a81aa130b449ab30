package seed

// FillCube writes s³ lattice positions into buf (4 floats per particle).
// The lattice spans [-width/2, +width/2] on every axis, centered at the origin.
// A single-segment lattice collapses to the origin.
// The index decodes as x = i%s, z = (i/s)%s, y = i/s².
func FillCube(buf []float32, s int, width float32) {
	n := s * s * s
	half := width / 2
	last := float32(s - 1)

	for i := 0; i < n; i++ {
		cx := i % s
		cz := (i / s) % s
		cy := i / (s * s)

		x, y, z := float32(0), float32(0), float32(0)
		if s > 1 {
			x = float32(cx)/last*width - half
			y = float32(cy)/last*width - half
			z = float32(cz)/last*width - half
		}

		o := i * 4
		buf[o] = x
		buf[o+1] = y
		buf[o+2] = z
		buf[o+3] = 1
	}
}
