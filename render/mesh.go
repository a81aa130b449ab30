package render

import "github.com/pthm-cable/morph/seed"

// quadCorners are the two triangles of a point sprite, counter-clockwise.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// quadMesh builds the non-indexed point-sprite mesh for s³ particles.
// positions holds xyz per vertex with the quad corner in xy and z = 0;
// texcoords holds the particle's reference coordinate for every vertex.
func quadMesh(s int) (positions, texcoords []float32) {
	refs := seed.References(s)
	n := len(refs) / 2

	positions = make([]float32, 0, n*6*3)
	texcoords = make([]float32, 0, n*6*2)
	for i := 0; i < n; i++ {
		u, v := refs[i*2], refs[i*2+1]
		for _, c := range quadCorners {
			positions = append(positions, c[0], c[1], 0)
			texcoords = append(texcoords, u, v)
		}
	}
	return positions, texcoords
}
