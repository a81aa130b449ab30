package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/seed"
	"github.com/pthm-cable/morph/sim"
)

// RasterOptions configures a Raster stage.
type RasterOptions struct {
	Segments      int
	Width, Height int
	PixelRatio    float32
	Background    color.RGBA
	PointColor    color.RGBA
	NoiseSeed     int64
}

// Raster draws the particle cloud into an in-memory image on the CPU.
type Raster struct {
	canvas *image.RGBA
	bg     *image.Uniform
	ink    *image.Uniform
	noise  opensimplex.Noise

	refs          []float32 // Interleaved reference coordinates
	p1, p2, mixed []float32 // xyz per particle

	width, height int
	pixelRatio    float32
	frames        int
}

// NewRaster allocates the canvas and per-particle buffers.
func NewRaster(opts RasterOptions) *Raster {
	refs := seed.References(opts.Segments)
	n := len(refs) / 2
	r := &Raster{
		bg:    image.NewUniform(opts.Background),
		ink:   image.NewUniform(opts.PointColor),
		noise: opensimplex.New(opts.NoiseSeed),
		refs:  refs,
		p1:    make([]float32, n*3),
		p2:    make([]float32, n*3),
		mixed: make([]float32, n*3),
	}
	r.Resize(opts.Width, opts.Height, opts.PixelRatio)
	if r.canvas == nil {
		// Drawable until the first valid Resize.
		r.width, r.height, r.pixelRatio = 1, 1, 1
		r.canvas = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return r
}

// Resize reallocates the canvas at width·pixelRatio × height·pixelRatio.
// Non-positive sizes are ignored.
func (r *Raster) Resize(width, height int, pixelRatio float32) {
	if width <= 0 || height <= 0 {
		return
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.width, r.height, r.pixelRatio = width, height, pixelRatio
	w := max(int(float32(width)*pixelRatio), 1)
	h := max(int(float32(height)*pixelRatio), 1)
	r.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Render draws one frame of the cloud.
func (r *Raster) Render(u *Uniforms[*sim.Texture], cam *camera.Orbit, overlay func()) {
	r.gather(u.Position1, r.p1)
	r.gather(u.Position2, r.p2)
	Blend(r.mixed, r.p1, r.p2, u.Slider)

	r.clear()

	viewProj := cam.Projection().Mul4(cam.View())
	n := len(r.mixed) / 3
	for i := 0; i < n; i++ {
		p := mgl32.Vec3{r.mixed[i*3], r.mixed[i*3+1], r.mixed[i*3+2]}
		p = Displace(p, u.Time, u.Params, r.noise)

		sx, sy, depth, ok := cam.ProjectWith(viewProj, p)
		if !ok {
			continue
		}
		r.splat(sx*r.pixelRatio, sy*r.pixelRatio, PointSize(u.Size, r.pixelRatio, depth))
	}

	if overlay != nil {
		overlay()
	}
	r.frames++
}

// gather reads each particle's position from tex at its reference coordinate.
func (r *Raster) gather(tex *sim.Texture, dst []float32) {
	s := sim.Sampler{Tex: tex, WrapS: sim.WrapRepeat, WrapT: sim.WrapRepeat}
	for i := 0; i < len(r.refs)/2; i++ {
		t := s.SampleUV(r.refs[i*2], r.refs[i*2+1])
		copy(dst[i*3:i*3+3], t[:3])
	}
}

func (r *Raster) clear() {
	draw.Draw(r.canvas, r.canvas.Bounds(), r.bg, image.Point{}, draw.Src)
}

// splat fills a disc of the given diameter centred on (cx, cy).
func (r *Raster) splat(cx, cy, size float32) {
	half := size / 2
	if size <= 2 {
		rect := image.Rect(int(cx-half), int(cy-half), int(cx+half+0.5), int(cy+half+0.5))
		draw.Draw(r.canvas, rect, r.ink, image.Point{}, draw.Src)
		return
	}

	bounds := r.canvas.Bounds()
	x0, x1 := int(cx-half), int(cx+half)+1
	y0, y1 := int(cy-half), int(cy+half)+1
	r2 := half * half
	c := r.ink.C.(color.RGBA)
	for y := y0; y < y1; y++ {
		dy := float32(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			if !image.Pt(x, y).In(bounds) {
				continue
			}
			dx := float32(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				r.canvas.SetRGBA(x, y, c)
			}
		}
	}
}

// RenderStatus draws status text on the background.
func (r *Raster) RenderStatus(status string, overlay func()) {
	r.clear()

	d := &font.Drawer{
		Dst:  r.canvas,
		Src:  r.ink,
		Face: basicfont.Face7x13,
	}
	y := r.canvas.Bounds().Dy() / 2
	for _, line := range strings.Split(status, "\n") {
		d.Dot = fixed.P(20, y)
		d.DrawString(line)
		y += basicfont.Face7x13.Height
	}

	if overlay != nil {
		overlay()
	}
	r.frames++
}

// Image returns the canvas. It is overwritten by the next Render.
func (r *Raster) Image() *image.RGBA {
	return r.canvas
}

// Frames returns the number of frames drawn so far.
func (r *Raster) Frames() int {
	return r.frames
}

// Snapshot writes the canvas to path as PNG.
func (r *Raster) Snapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, r.canvas); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

// Unload is a no-op; the canvas is garbage collected.
func (r *Raster) Unload() {}
