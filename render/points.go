package render

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/shaders"
)

// pointsLocs are the uniform locations of the points shader, resolved once.
type pointsLocs struct {
	texelSize  int32
	viewport   int32
	pixelRatio int32
	time       int32
	strength   int32
	speed      int32
	size       int32
	slider     int32
	pointColor int32
}

// PointsOptions configures a Points stage.
type PointsOptions struct {
	Segments      int
	Width, Height int
	PixelRatio    float32
	Background    color.RGBA
	PointColor    color.RGBA
}

// Points draws the particle cloud with raylib. Each particle is a
// camera-facing quad positioned in the vertex shader by sampling both
// position textures at its reference coordinate.
type Points struct {
	shader   rl.Shader
	material rl.Material
	mesh     rl.Mesh
	locs     pointsLocs

	// Backing arrays of the uploaded mesh
	positions []float32
	texcoords []float32

	segments   int
	width      int
	height     int
	pixelRatio float32
	background color.RGBA
	pointColor [4]float32
}

// NewPoints builds the mesh and compiles the points shader.
// A raylib window must already be open.
func NewPoints(opts PointsOptions) (*Points, error) {
	p := &Points{
		segments:   opts.Segments,
		background: opts.Background,
		pointColor: [4]float32{
			float32(opts.PointColor.R) / 255,
			float32(opts.PointColor.G) / 255,
			float32(opts.PointColor.B) / 255,
			float32(opts.PointColor.A) / 255,
		},
	}

	p.shader = rl.LoadShaderFromMemory(shaders.PointsVertex, shaders.PointsFragment)
	p.locs = pointsLocs{
		texelSize:  rl.GetShaderLocation(p.shader, "texelSize"),
		viewport:   rl.GetShaderLocation(p.shader, "viewport"),
		pixelRatio: rl.GetShaderLocation(p.shader, "pixelRatio"),
		time:       rl.GetShaderLocation(p.shader, "uTime"),
		strength:   rl.GetShaderLocation(p.shader, "uStrength"),
		speed:      rl.GetShaderLocation(p.shader, "uSpeed"),
		size:       rl.GetShaderLocation(p.shader, "uSize"),
		slider:     rl.GetShaderLocation(p.shader, "uSlider"),
		pointColor: rl.GetShaderLocation(p.shader, "pointColor"),
	}
	if p.locs.viewport < 0 {
		// raylib substitutes its default shader when compilation fails
		rl.UnloadShader(p.shader)
		return nil, fmt.Errorf("points shader failed to compile")
	}

	s := float32(opts.Segments)
	rl.SetShaderValue(p.shader, p.locs.texelSize, []float32{1 / s, 1 / (s * s)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(p.shader, p.locs.pointColor, p.pointColor[:], rl.ShaderUniformVec4)

	p.positions, p.texcoords = quadMesh(opts.Segments)
	vertexCount := len(p.positions) / 3
	p.mesh = rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(vertexCount / 3),
	}
	p.mesh.Vertices = &p.positions[0]
	p.mesh.Texcoords = &p.texcoords[0]
	rl.UploadMesh(&p.mesh, false)

	p.material = rl.LoadMaterialDefault()
	p.material.Shader = p.shader

	p.Resize(opts.Width, opts.Height, opts.PixelRatio)
	return p, nil
}

// Resize updates the viewport uniforms. The window's framebuffer itself is
// reallocated by raylib.
func (p *Points) Resize(width, height int, pixelRatio float32) {
	if width <= 0 || height <= 0 {
		return
	}
	p.width, p.height, p.pixelRatio = width, height, pixelRatio
	viewport := []float32{float32(width) * pixelRatio, float32(height) * pixelRatio}
	rl.SetShaderValue(p.shader, p.locs.viewport, viewport, rl.ShaderUniformVec2)
	rl.SetShaderValue(p.shader, p.locs.pixelRatio, []float32{pixelRatio}, rl.ShaderUniformFloat)
}

// Render draws one frame of the cloud.
func (p *Points) Render(u *Uniforms[rl.Texture2D], cam *camera.Orbit, overlay func()) {
	rl.BeginDrawing()
	rl.ClearBackground(p.background)

	beginCamera(cam)

	rl.SetMaterialTexture(&p.material, rl.MapDiffuse, u.Position1)
	rl.SetMaterialTexture(&p.material, rl.MapSpecular, u.Position2)

	rl.SetShaderValue(p.shader, p.locs.time, []float32{u.Time}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.locs.strength, []float32{u.Strength}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.locs.speed, []float32{u.Speed}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.locs.size, []float32{u.Size}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.locs.slider, []float32{u.Slider}, rl.ShaderUniformFloat)

	rl.DrawMesh(p.mesh, p.material, rl.MatrixIdentity())

	rl.EndMode3D()

	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
}

// beginCamera loads the orbit camera's matrices, like BeginMode3D but with
// the camera's own clip planes.
func beginCamera(cam *camera.Orbit) {
	rl.DrawRenderBatchActive()

	rl.MatrixMode(rl.Projection)
	rl.PushMatrix()
	rl.LoadIdentity()
	rl.MultMatrix(toMatrix(cam.Projection()))

	rl.MatrixMode(rl.Modelview)
	rl.LoadIdentity()
	rl.MultMatrix(toMatrix(cam.View()))

	rl.EnableDepthTest()
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout. Both
// number their elements down the columns.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// RenderStatus draws a status line on the background.
func (p *Points) RenderStatus(status string, overlay func()) {
	rl.BeginDrawing()
	rl.ClearBackground(p.background)

	c := rl.NewColor(
		uint8(p.pointColor[0]*255),
		uint8(p.pointColor[1]*255),
		uint8(p.pointColor[2]*255),
		255,
	)
	rl.DrawText(status, 20, int32(p.height)/2, 20, c)

	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
}

// Unload releases the mesh and shader. The position textures belong to the
// simulation and are left alone.
func (p *Points) Unload() {
	rl.UnloadMesh(&p.mesh)
	rl.UnloadShader(p.shader)
}
