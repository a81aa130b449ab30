// Shader debug tool - runs the simulation programs on the GPU and the CPU
// from the same seeds and reports how far the results drift apart.
//
// Usage: go run ./cmd/shaderdebug -steps 120 -out positions.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/seed"
	"github.com/pthm-cable/morph/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	steps := flag.Int("steps", 120, "Simulation steps to run")
	dt := flag.Float64("dt", 1.0/60.0, "Seconds of sketch time per step")
	outPath := flag.String("out", "", "Optional PNG of the GPU cube positions")
	tolerance := flag.Float64("tolerance", 1e-3, "Largest acceptable difference")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	d := cfg.Derived

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(d.TextureWidth), int32(d.TextureHeight), "Shader Debug")
	defer rl.CloseWindow()

	cube := sim.NewTexture(d.TextureWidth, d.TextureHeight)
	seed.FillCube(cube.Data, cfg.Particles.Segments, d.Width32)
	inputs := sim.Inputs{UsesTime: true, Twist: float32(cfg.Simulation.CubeTwist)}

	gpu := sim.NewGPU(d.TextureWidth, d.TextureHeight)
	gv := gpu.AddVariable("texturePosition", cube, sim.CubeProgram)
	gv.WrapS, gv.WrapT = sim.WrapRepeat, sim.WrapRepeat
	gv.Inputs = inputs
	gpu.SetDependencies(gv, gv)
	if err := gpu.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "GPU init failed: %v\n", err)
		os.Exit(1)
	}
	defer gpu.Unload()

	cpu := sim.NewCPU(d.TextureWidth, d.TextureHeight)
	cv := cpu.AddVariable("texturePosition", cube, sim.CubeProgram)
	cv.WrapS, cv.WrapT = sim.WrapRepeat, sim.WrapRepeat
	cv.Inputs = inputs
	cpu.SetDependencies(cv, cv)
	if err := cpu.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "CPU init failed: %v\n", err)
		os.Exit(1)
	}

	for i := 1; i <= *steps; i++ {
		t := float32(float64(i) * *dt)
		gv.Inputs.Time = t
		cv.Inputs.Time = t
		gpu.Compute()
		cpu.Compute()
	}

	got, err := gpu.Download(gv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Readback failed: %v\n", err)
		os.Exit(1)
	}
	want := cpu.Current(cv)

	var maxDiff float64
	worst := 0
	for i := range got.Data {
		if diff := math.Abs(float64(got.Data[i] - want.Data[i])); diff > maxDiff {
			maxDiff = diff
			worst = i / 4
		}
	}
	fmt.Printf("%d particles, %d steps: max difference %.3g at particle %d\n", d.NumParticles, *steps, maxDiff, worst)

	if *outPath != "" {
		if err := writePositions(*outPath, got, d.Width32); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to export image: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Positions written to: %s (%dx%d)\n", *outPath, got.Width, got.Height)
	}

	if maxDiff > *tolerance {
		os.Exit(1)
	}
}

// writePositions encodes xyz as rgb, mapping [-width/2, width/2] to [0, 255].
func writePositions(path string, tex *sim.Texture, width float32) error {
	img := image.NewRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	channel := func(v float32) uint8 {
		n := (v + width/2) / width
		if n < 0 {
			n = 0
		}
		if n > 1 {
			n = 1
		}
		return uint8(n * 255)
	}
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			p := tex.Texel(x, y)
			img.SetRGBA(x, y, color.RGBA{R: channel(p[0]), G: channel(p[1]), B: channel(p[2]), A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
