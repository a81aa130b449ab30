// Package app wires the seed generators, the simulation and the render stage
// into a frame loop driven by an explicit state machine.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/render"
	"github.com/pthm-cable/morph/seed"
	"github.com/pthm-cable/morph/sim"
	"github.com/pthm-cable/morph/telemetry"
	"github.com/pthm-cable/morph/ui"
)

// Simulation variable names. The GPU backend binds each variable's previous
// frame to a sampler of the same name.
const (
	CubeVariable  = "texturePosition"
	ImageVariable = "textureImage"
)

// LoadStarter begins the asynchronous portrait load.
type LoadStarter func(ctx context.Context, src string, size int, timeout time.Duration) *seed.Load

// Options configures a new App.
type Options[T any] struct {
	Config   *config.Config
	RNGSeed  int64
	Computer sim.Computer[T]
	Stage    render.Stage[T]

	Input Input            // Nil disables interactive input
	Clock func() time.Time // Defaults to time.Now
	// PerfClock times frame phases. Defaults to time.Now even when Clock is set.
	PerfClock func() time.Time
	Load  LoadStarter      // Defaults to seed.StartLoad
	Out   *telemetry.OutputManager

	// LogStats logs perf and window stats every stats window.
	LogStats bool
	// TickDT is the nominal seconds per frame used for stats windows.
	TickDT float64
}

// App is the application context. It owns every resource of one session
// and is driven by calling Frame once per display frame.
type App[T any] struct {
	cfg     *config.Config
	rngSeed int64
	rng     *rand.Rand

	camera *camera.Orbit
	params render.Params

	computer  sim.Computer[T]
	stage     render.Stage[T]
	input     Input
	controls  Controls
	overlay   func()
	clock     func() time.Time
	startLoad LoadStarter

	perf      *telemetry.FrameTimer
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	cubeSeed  *sim.Texture
	imageSeed *sim.Texture
	cubeVar   *sim.Variable
	imageVar  *sim.Variable
	load      *seed.Load

	state State
	err   error

	tick      int64
	startTime time.Time
	elapsed   float32

	width, height int
	pixelRatio    float32
	uniforms      render.Uniforms[T]
}

// New creates an App in StateUninitialized. The render stage is sized to
// width×height logical pixels at the given pixel ratio.
func New[T any](opts Options[T], width, height int, pixelRatio float32) *App[T] {
	cfg := opts.Config

	a := &App[T]{
		cfg:       cfg,
		rngSeed:   opts.RNGSeed,
		rng:       rand.New(rand.NewSource(opts.RNGSeed)),
		computer:  opts.Computer,
		stage:     opts.Stage,
		input:     opts.Input,
		clock:     opts.Clock,
		startLoad: opts.Load,
		output:    opts.Out,
		logStats:  opts.LogStats,
		params: render.Params{
			Strength: float32(cfg.Render.Strength),
			Speed:    float32(cfg.Render.Speed),
			Size:     float32(cfg.Render.Size),
			Slider:   float32(cfg.Render.Slider),
		}.Clamp(),
		camera: camera.New(float32(width), float32(height), camera.Options{
			FOV:         float32(cfg.Camera.FOV),
			Near:        float32(cfg.Camera.Near),
			Far:         float32(cfg.Camera.Far),
			Distance:    float32(cfg.Camera.Distance),
			Damping:     float32(cfg.Camera.Damping),
			MinDistance: float32(cfg.Camera.MinDistance),
			MaxDistance: float32(cfg.Camera.MaxDistance),
		}),
	}
	perfClock := opts.PerfClock
	if perfClock == nil {
		perfClock = time.Now
	}
	a.perf = telemetry.NewFrameTimerClock(cfg.Telemetry.PerfWindow, perfClock)
	if a.clock == nil {
		a.clock = time.Now
	}
	if a.startLoad == nil {
		a.startLoad = seed.StartLoad
	}

	dt := opts.TickDT
	if dt <= 0 {
		dt = cfg.Headless.DT
	}
	a.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, dt)

	a.controls = Controls{
		Camera:          a.camera,
		Resize:          a.Resize,
		RotateSpeed:     float32(cfg.Camera.RotateSpeed),
		ZoomSpeed:       float32(cfg.Camera.ZoomSpeed),
		DefaultDistance: float32(cfg.Camera.Distance),
	}

	a.pixelRatio = 1
	a.Resize(width, height, pixelRatio)
	return a
}

// Start generates the cube seed and begins loading the portrait.
func (a *App[T]) Start(ctx context.Context) error {
	if a.state != StateUninitialized {
		return fmt.Errorf("app: start in state %s", a.state)
	}
	d := a.cfg.Derived
	slog.Info("particles", "count", d.NumParticles, "segments", a.cfg.Particles.Segments)

	a.cubeSeed = sim.NewTexture(d.TextureWidth, d.TextureHeight)
	seed.FillCube(a.cubeSeed.Data, a.cfg.Particles.Segments, d.Width32)
	slog.Info("seed_texture_generated", "variable", CubeVariable, "pixels", d.NumParticles)

	if err := a.output.WriteConfig(a.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	a.load = a.startLoad(ctx, a.cfg.Image.Path, a.cfg.Image.CanvasSize, d.LoadTimeout)
	a.transition(StateAwaitingImageLoad)
	return nil
}

// Frame runs one iteration of the loop: input, state advance, then either
// simulate-and-render or the status screen.
func (a *App[T]) Frame() {
	a.perf.BeginFrame()

	a.perf.Enter(telemetry.PhaseInput)
	if a.input != nil {
		a.input.Handle(&a.controls)
	}
	a.camera.Update()

	a.perf.Enter(telemetry.PhaseLoad)
	a.advance()

	status := a.state != StateRunning
	if status {
		a.perf.Enter(telemetry.PhaseRender)
		a.stage.RenderStatus(a.Status(), a.overlay)
	} else {
		a.step()
	}

	a.collector.RecordFrame(status, a.perf.Present())
	a.perf.EndFrame()
	a.tick++
	a.flushStats()
}

// advance moves the state machine forward as far as it can this frame.
func (a *App[T]) advance() {
	if a.state == StateAwaitingImageLoad {
		canvas, done, err := a.load.Poll()
		if !done {
			return
		}
		if err == nil && canvas == nil {
			err = errors.New("image load returned no canvas")
		}
		if err != nil {
			a.fail("image_load_failed", err)
			return
		}
		if err := a.initSimulation(canvas); err != nil {
			event := "image_seed_failed"
			if errors.Is(err, sim.ErrInit) {
				event = "simulation_init_failed"
			}
			a.fail(event, err)
			return
		}
		a.transition(StateReady)
	}

	if a.state == StateReady {
		a.startTime = a.clock()
		a.transition(StateRunning)
	}
}

// initSimulation builds the portrait seed and initializes both variables.
func (a *App[T]) initSimulation(canvas *image.RGBA) error {
	d := a.cfg.Derived
	pool := seed.CandidatePool(canvas, a.cfg.Image.Threshold)

	a.imageSeed = sim.NewTexture(d.TextureWidth, d.TextureHeight)
	opts := seed.ImageOptions{
		Width:     d.Width32,
		Threshold: a.cfg.Image.Threshold,
		UseDepth:  a.cfg.Image.UseDepth,
	}
	if err := seed.FillImage(a.imageSeed.Data, pool, opts, a.rng); err != nil {
		return fmt.Errorf("seeding %s: %w", ImageVariable, err)
	}
	slog.Info("seed_texture_generated", "variable", ImageVariable, "pixels", len(pool), "particles", d.NumParticles)

	twist := float32(a.cfg.Simulation.CubeTwist)

	a.cubeVar = a.computer.AddVariable(CubeVariable, a.cubeSeed, sim.CubeProgram)
	a.cubeVar.WrapS, a.cubeVar.WrapT = sim.WrapRepeat, sim.WrapRepeat
	a.cubeVar.Inputs = sim.Inputs{UsesTime: true, Twist: twist}

	a.imageVar = a.computer.AddVariable(ImageVariable, a.imageSeed, sim.ImageProgram)
	a.imageVar.WrapS, a.imageVar.WrapT = sim.WrapRepeat, sim.WrapRepeat
	if a.cfg.Simulation.ImageTime {
		a.imageVar.Inputs = sim.Inputs{UsesTime: true, Twist: twist}
	}

	a.computer.SetDependencies(a.cubeVar, a.cubeVar)
	a.computer.SetDependencies(a.imageVar, a.imageVar)

	return a.computer.Init()
}

// step simulates one frame, refreshes the uniforms and renders.
// The simulation always completes before the render reads its output.
func (a *App[T]) step() {
	a.perf.Enter(telemetry.PhaseSimulate)
	a.elapsed = float32(a.clock().Sub(a.startTime).Seconds())
	for _, v := range []*sim.Variable{a.cubeVar, a.imageVar} {
		if v.Inputs.UsesTime {
			v.Inputs.Time = a.elapsed
		}
	}
	a.computer.Compute()
	a.collector.RecordStep()

	a.perf.Enter(telemetry.PhaseUniforms)
	a.params = a.params.Clamp()
	a.uniforms.Params = a.params
	a.uniforms.Time = a.elapsed
	a.uniforms.Position1 = a.computer.Current(a.cubeVar)
	a.uniforms.Position2 = a.computer.Current(a.imageVar)

	a.perf.Enter(telemetry.PhaseRender)
	a.stage.Render(&a.uniforms, a.camera, a.overlay)
}

func (a *App[T]) transition(to State) {
	slog.Info("state_transition", "from", a.state.String(), "to", to.String(), "tick", a.tick)
	a.state = to
}

// fail records err and moves to StateFailed. The session does not recover.
func (a *App[T]) fail(event string, err error) {
	slog.Error(event, "error", err, "state", a.state.String())
	a.err = err
	if a.load != nil {
		a.load.Cancel()
	}
	a.transition(StateFailed)
}

// Resize updates the camera and the render stage. Zero dimensions, as seen
// while the window is minimized, are ignored. The pixel ratio is capped at
// screen.max_pixel_ratio.
func (a *App[T]) Resize(width, height int, pixelRatio float32) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	if limit := float32(a.cfg.Screen.MaxPixelRatio); pixelRatio > limit {
		pixelRatio = limit
	}
	a.width, a.height, a.pixelRatio = width, height, pixelRatio
	a.camera.Resize(float32(width), float32(height))
	a.stage.Resize(width, height, pixelRatio)
	return true
}

// Status is the text shown instead of the particle cloud.
func (a *App[T]) Status() string {
	switch a.state {
	case StateUninitialized:
		return "Starting"
	case StateAwaitingImageLoad:
		return "Loading image..."
	case StateReady:
		return "Initializing simulation"
	case StateFailed:
		return "Error: " + a.err.Error()
	default:
		return ""
	}
}

// SetPanel lets input handling avoid orbiting while the pointer is over
// the debug panel.
func (a *App[T]) SetPanel(p *ui.DebugPanel) {
	a.controls.Panel = p
}

// SetOverlay installs a callback drawn on top of every frame.
func (a *App[T]) SetOverlay(fn func()) {
	a.overlay = fn
}

// Close cancels any pending load and releases backend resources.
func (a *App[T]) Close() error {
	if a.load != nil {
		a.load.Cancel()
	}
	a.computer.Unload()
	a.stage.Unload()
	return a.output.Close()
}

// State returns the current lifecycle state.
func (a *App[T]) State() State { return a.state }

// Err returns the error that moved the App to StateFailed.
func (a *App[T]) Err() error { return a.err }

// Tick returns the number of frames run.
func (a *App[T]) Tick() int64 { return a.tick }

// Elapsed returns seconds since the App entered StateRunning.
func (a *App[T]) Elapsed() float32 { return a.elapsed }

// Params returns the live point-cloud parameters. Edits take effect on the
// next frame.
func (a *App[T]) Params() *render.Params { return &a.params }

// Camera returns the orbit camera.
func (a *App[T]) Camera() *camera.Orbit { return a.camera }

// Size returns the current logical size and pixel ratio.
func (a *App[T]) Size() (width, height int, pixelRatio float32) {
	return a.width, a.height, a.pixelRatio
}

// HUDData returns the frame-timing readout averaged over the perf window.
func (a *App[T]) HUDData() ui.HUDData {
	s := a.perf.Stats()
	return ui.HUDData{
		Particles: a.cfg.Derived.NumParticles,
		Tick:      a.tick,
		FPS:       s.FPS,
		FrameMS:   s.FrameMS(),
		State:     a.state.String(),
	}
}
