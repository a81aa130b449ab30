package seed

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"golang.org/x/image/draw"
)

// ErrEmptyPool is returned when no canvas pixel is dark enough to sample from.
var ErrEmptyPool = errors.New("seed: candidate pool is empty")

// Candidate is a canvas pixel dark enough to seed particles.
// X and Y are normalized to [0, 1) with Y growing downwards.
type Candidate struct {
	X, Y float32
	R    uint8 // Red channel, used as a depth cue
}

// ImageOptions controls how candidates are mapped into world space.
type ImageOptions struct {
	Width     float32 // World-space extent of the canvas
	Threshold int     // Threshold the pool was built with (depth cue scale)
	UseDepth  bool    // Write the depth cue into z instead of 0
}

// Rasterize draws src onto a transparent size×size canvas, scaling to fit.
// Transparent canvas pixels read as black.
func Rasterize(src image.Image, size int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), src, src.Bounds(), draw.Over, nil)
	return canvas
}

// CandidatePool collects every canvas pixel whose red channel is below threshold,
// in row-major order.
func CandidatePool(canvas *image.RGBA, threshold int) []Candidate {
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	pool := make([]Candidate, 0, w*h/4)

	for py := 0; py < h; py++ {
		row := canvas.Pix[py*canvas.Stride:]
		for px := 0; px < w; px++ {
			r := row[px*4]
			if int(r) >= threshold {
				continue
			}
			pool = append(pool, Candidate{
				X: float32(px) / float32(w),
				Y: float32(py) / float32(h),
				R: r,
			})
		}
	}
	return pool
}

// WorldPosition maps a candidate to world space. The canvas is centered
// horizontally and its top edge sits at +width/2. The depth cue is returned
// separately so callers can decide whether to keep it.
func (c Candidate) WorldPosition(opts ImageOptions) (x, y, depth float32) {
	w := opts.Width
	x = c.X*w - w/2
	y = w/2 - c.Y*w
	threshold := float32(opts.Threshold)
	if threshold <= 0 {
		threshold = 150
	}
	depth = float32(c.R)/threshold*0.1*w - 0.1
	return x, y, depth
}

// FillImage assigns every particle slot in buf a candidate drawn uniformly
// with replacement from pool. Many particles may share a pixel.
func FillImage(buf []float32, pool []Candidate, opts ImageOptions, rng *rand.Rand) error {
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if len(buf)%4 != 0 {
		return fmt.Errorf("seed: buffer length %d is not a multiple of 4", len(buf))
	}

	for o := 0; o < len(buf); o += 4 {
		c := pool[rng.Intn(len(pool))]
		x, y, depth := c.WorldPosition(opts)

		z := float32(0)
		if opts.UseDepth {
			z = depth
		}

		buf[o] = x
		buf[o+1] = y
		buf[o+2] = z
		buf[o+3] = 1
	}
	return nil
}
