package render

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/seed"
	"github.com/pthm-cable/morph/sim"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	ink   = color.RGBA{20, 20, 24, 255}
)

func TestParamsClamp(t *testing.T) {
	p := Params{Strength: 5, Speed: -1, Size: 0, Slider: 1.5}.Clamp()
	want := Params{Strength: 2, Speed: 0, Size: 1, Slider: 1}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}

	in := Params{Strength: 0.378, Speed: 0.373, Size: 1, Slider: 1}
	if got := in.Clamp(); got != in {
		t.Errorf("in-range params changed: %+v", got)
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-4, 5, 10}
	dst := make([]float32, 3)

	Blend(dst, a, b, 0)
	for i := range a {
		if dst[i] != a[i] {
			t.Errorf("t=0: dst[%d] = %f, want %f", i, dst[i], a[i])
		}
	}

	Blend(dst, a, b, 1)
	for i := range b {
		if dst[i] != b[i] {
			t.Errorf("t=1: dst[%d] = %f, want %f", i, dst[i], b[i])
		}
	}

	Blend(dst, a, b, 0.5)
	want := []float32{-1.5, 3.5, 6.5}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-6 {
			t.Errorf("t=0.5: dst[%d] = %f, want %f", i, dst[i], want[i])
		}
	}
}

type constNoise float64

func (c constNoise) Eval3(x, y, z float64) float64 { return float64(c) }

func TestDisplaceZeroStrengthIsIdentity(t *testing.T) {
	p := mgl32.Vec3{0.3, -0.2, 0.9}
	got := Displace(p, 12, Params{Strength: 0, Speed: 1}, constNoise(1))
	if got != p {
		t.Errorf("expected %v unchanged, got %v", p, got)
	}
}

func TestDisplaceScalesWithStrength(t *testing.T) {
	p := mgl32.Vec3{0, 0, 0}
	got := Displace(p, 0, Params{Strength: 2}, constNoise(0.5))

	// 0.5 noise * 2 strength * 0.2 gain
	for i := 0; i < 3; i++ {
		if math.Abs(float64(got[i]-0.2)) > 1e-6 {
			t.Errorf("axis %d displaced by %f, want 0.2", i, got[i])
		}
	}
}

func TestPointSize(t *testing.T) {
	testCases := []struct {
		size, ratio, depth, want float32
	}{
		{1, 1, 3, 1},     // default size at default distance
		{10, 2, 3, 20},   // scales with pixel ratio
		{10, 1, 6, 5},    // halves when twice as far
		{1, 1, 100, 1},   // never below one pixel
		{1, 1, 0, 30000}, // depth guarded against zero
	}
	for _, tc := range testCases {
		got := PointSize(tc.size, tc.ratio, tc.depth)
		if math.Abs(float64(got-tc.want)) > 1e-3*math.Max(1, float64(tc.want)) {
			t.Errorf("PointSize(%f, %f, %f) = %f, want %f", tc.size, tc.ratio, tc.depth, got, tc.want)
		}
	}
}

func TestQuadMesh(t *testing.T) {
	const s = 3
	positions, texcoords := quadMesh(s)

	n := s * s * s
	if len(positions) != n*6*3 {
		t.Fatalf("expected %d position floats, got %d", n*6*3, len(positions))
	}
	if len(texcoords) != n*6*2 {
		t.Fatalf("expected %d texcoord floats, got %d", n*6*2, len(texcoords))
	}

	// Every vertex of particle i carries its reference coordinate.
	for i := 0; i < n; i++ {
		rx, ry := seed.Reference(i, s)
		for v := 0; v < 6; v++ {
			o := (i*6 + v) * 2
			if texcoords[o] != rx || texcoords[o+1] != ry {
				t.Fatalf("particle %d vertex %d has ref (%f,%f), want (%f,%f)",
					i, v, texcoords[o], texcoords[o+1], rx, ry)
			}
		}
	}

	// Corners stay within the unit quad and z is zero.
	for i := 0; i < len(positions); i += 3 {
		if math.Abs(float64(positions[i])) != 1 || math.Abs(float64(positions[i+1])) != 1 || positions[i+2] != 0 {
			t.Fatalf("unexpected corner (%f,%f,%f)", positions[i], positions[i+1], positions[i+2])
		}
	}
}

func newTestRaster(s int) (*Raster, *camera.Orbit) {
	r := NewRaster(RasterOptions{
		Segments:   s,
		Width:      200,
		Height:     200,
		PixelRatio: 1,
		Background: white,
		PointColor: ink,
		NoiseSeed:  1,
	})
	cam := camera.New(200, 200, camera.Options{
		FOV: 75, Near: 0.1, Far: 100, Distance: 3, MinDistance: 0.5, MaxDistance: 20,
	})
	return r, cam
}

func cubeTexture(s int) *sim.Texture {
	tex := sim.NewTexture(s, s*s)
	seed.FillCube(tex.Data, s, 2)
	return tex
}

func countInk(r *Raster) int {
	n := 0
	img := r.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == ink {
				n++
			}
		}
	}
	return n
}

func TestRasterDrawsCube(t *testing.T) {
	const s = 2
	r, cam := newTestRaster(s)

	origin := sim.NewTexture(s, s*s)
	u := &Uniforms[*sim.Texture]{
		Params:    Params{Strength: 0, Speed: 0.373, Size: 4, Slider: 0},
		Position1: cubeTexture(s),
		Position2: origin,
	}
	r.Render(u, cam, nil)

	if countInk(r) == 0 {
		t.Fatal("expected cube points on the canvas")
	}
	// The origin is empty while the slider shows the cube.
	if r.Image().RGBAAt(100, 100) != white {
		t.Error("expected background at the canvas center")
	}
}

func TestRasterSliderSelectsSecondTexture(t *testing.T) {
	const s = 2
	r, cam := newTestRaster(s)

	u := &Uniforms[*sim.Texture]{
		Params:    Params{Size: 4, Slider: 1},
		Position1: cubeTexture(s),
		Position2: sim.NewTexture(s, s*s), // every particle at the origin
	}
	overlayCalled := false
	r.Render(u, cam, func() { overlayCalled = true })

	if r.Image().RGBAAt(100, 100) != ink {
		t.Error("expected a point at the canvas center")
	}
	if r.Image().RGBAAt(5, 5) != white {
		t.Error("expected background in the corner")
	}
	if !overlayCalled {
		t.Error("overlay was not called")
	}
	if r.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", r.Frames())
	}
}

func TestRasterResize(t *testing.T) {
	r, _ := newTestRaster(2)

	r.Resize(0, 100, 1)
	if b := r.Image().Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("zero resize changed canvas to %v", b)
	}

	r.Resize(300, 100, 2)
	if b := r.Image().Bounds(); b.Dx() != 600 || b.Dy() != 200 {
		t.Errorf("expected 600x200 canvas, got %v", b)
	}
}

func TestRasterZeroSizeStillDraws(t *testing.T) {
	const s = 2
	r := NewRaster(RasterOptions{Segments: s, Background: white, PointColor: ink})
	cam := camera.New(0, 0, camera.Options{FOV: 75, Near: 0.1, Far: 100, Distance: 3})

	if b := r.Image().Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Fatalf("expected 1x1 fallback canvas, got %v", b)
	}

	r.RenderStatus("loading", nil)
	r.Render(&Uniforms[*sim.Texture]{
		Params:    Params{Size: 4, Slider: 1},
		Position1: cubeTexture(s),
		Position2: sim.NewTexture(s, s*s),
	}, cam, nil)
	if r.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", r.Frames())
	}

	r.Resize(50, 40, 0.01)
	if b := r.Image().Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		t.Errorf("tiny pixel ratio produced empty canvas %v", b)
	}
}

func TestRasterStatusAndSnapshot(t *testing.T) {
	r, _ := newTestRaster(2)
	r.RenderStatus("loading image\nplease wait", nil)

	if countInk(r) == 0 {
		t.Error("expected status text on the canvas")
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.Snapshot(path); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("snapshot is %v", b)
	}
}
