package main

import (
	"context"
	"flag"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/app"
	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/render"
	"github.com/pthm-cable/morph/sim"
	"github.com/pthm-cable/morph/telemetry"
	"github.com/pthm-cable/morph/ui"
)

const controlsLegend = "Drag: orbit | Wheel: zoom | H: panel | Home: reset view | F11: fullscreen"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run on the CPU without a window")
	imagePath := flag.String("image", "", "Portrait file path or http(s) URL (overrides config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for headless PNG/JSON snapshots")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *imagePath != "" {
		cfg.Image.Path = *imagePath
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := runOptions{
		cfg:         cfg,
		rngSeed:     rngSeed,
		out:         out,
		logStats:    *logStats,
		snapshotDir: *snapshotDir,
		maxTicks:    int64(*maxTicks),
	}

	if *headless {
		os.Exit(runHeadless(ctx, opts))
	}
	os.Exit(runWindow(ctx, opts))
}

type runOptions struct {
	cfg         *config.Config
	rngSeed     int64
	out         *telemetry.OutputManager
	logStats    bool
	snapshotDir string
	maxTicks    int64
}

// runWindow drives the GPU pipeline in a raylib window.
func runWindow(ctx context.Context, o runOptions) int {
	cfg := o.cfg

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Morph")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	ratio := app.PixelRatio()

	points, err := render.NewPoints(render.PointsOptions{
		Segments:   cfg.Particles.Segments,
		Width:      width,
		Height:     height,
		PixelRatio: ratio,
		Background: rgb(cfg.Screen.Background),
		PointColor: rgb(cfg.Render.PointColor),
	})
	if err != nil {
		slog.Error("failed to create point renderer", "error", err)
		return 1
	}

	dt := 1.0 / 60.0
	if cfg.Screen.TargetFPS > 0 {
		dt = 1 / float64(cfg.Screen.TargetFPS)
	}

	a := app.New(app.Options[rl.Texture2D]{
		Config:   cfg,
		RNGSeed:  o.rngSeed,
		Computer: sim.NewGPU(cfg.Derived.TextureWidth, cfg.Derived.TextureHeight),
		Stage:    points,
		Input:    app.NewRaylibInput(),
		Out:      o.out,
		LogStats: o.logStats,
		TickDT:   dt,
	}, width, height, ratio)
	defer a.Close()

	panel := ui.NewDebugPanel(a.Params())
	a.SetPanel(panel)
	hud := ui.NewHUD()
	a.SetOverlay(func() {
		hud.Draw(a.HUDData())
		hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)
		panel.Draw(int32(rl.GetScreenWidth()))
	})

	slog.Info("starting", "mode", "window", "seed", o.rngSeed, "image", cfg.Image.Path)
	if err := a.Start(ctx); err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.Frame()

		if o.maxTicks > 0 && a.Tick() >= o.maxTicks {
			break
		}
	}
	return 0
}

// runHeadless drives the CPU pipeline on a fixed-step clock and writes
// snapshots instead of presenting frames.
func runHeadless(ctx context.Context, o runOptions) int {
	cfg := o.cfg
	hc := cfg.Headless

	raster := render.NewRaster(render.RasterOptions{
		Segments:   cfg.Particles.Segments,
		Width:      hc.Width,
		Height:     hc.Height,
		PixelRatio: float32(hc.PixelRatio),
		Background: rgb(cfg.Screen.Background),
		PointColor: rgb(cfg.Render.PointColor),
		NoiseSeed:  o.rngSeed,
	})

	clock := newStepClock(time.Duration(hc.DT * float64(time.Second)))
	a := app.New(app.Options[*sim.Texture]{
		Config:   cfg,
		RNGSeed:  o.rngSeed,
		Computer: sim.NewCPU(cfg.Derived.TextureWidth, cfg.Derived.TextureHeight),
		Stage:    raster,
		Clock:    clock.Now,
		Out:      o.out,
		LogStats: o.logStats,
		TickDT:   hc.DT,
	}, hc.Width, hc.Height, float32(hc.PixelRatio))
	defer a.Close()

	slog.Info("starting", "mode", "headless", "seed", o.rngSeed, "image", cfg.Image.Path, "max_ticks", o.maxTicks)
	if err := a.Start(ctx); err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}

	for ctx.Err() == nil {
		clock.Advance()
		a.Frame()

		switch a.State() {
		case app.StateFailed:
			saveSnapshot(a, raster, o.snapshotDir)
			return 1
		case app.StateAwaitingImageLoad:
			// The load runs in the background; don't spin on it.
			time.Sleep(time.Millisecond)
			continue
		}

		if hc.SnapshotInterval > 0 && a.Tick()%int64(hc.SnapshotInterval) == 0 {
			saveSnapshot(a, raster, o.snapshotDir)
		}
		if o.maxTicks > 0 && a.Tick() >= o.maxTicks {
			slog.Info("max ticks reached", "tick", a.Tick())
			break
		}
	}

	saveSnapshot(a, raster, o.snapshotDir)
	return 0
}

// saveSnapshot writes the current raster as PNG plus its JSON description.
func saveSnapshot(a *app.App[*sim.Texture], raster *render.Raster, dir string) {
	if dir == "" {
		return
	}
	base := telemetry.SnapshotBase(a.Tick())
	png := base + ".png"

	snap := a.Snapshot(png)
	path, err := telemetry.SaveSnapshot(snap, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if err := raster.Snapshot(filepath.Join(dir, png)); err != nil {
		slog.Error("failed to save snapshot image", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", a.Tick())
}

// stepClock is a clock that only moves when advanced.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Unix(0, 0), step: step}
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Advance() { c.now = c.now.Add(c.step) }

func rgb(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}
