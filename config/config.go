// Package config provides configuration loading and access for the sketch.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sketch configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Image      ImageConfig      `yaml:"image"`
	Simulation SimulationConfig `yaml:"simulation"`
	Render     RenderConfig     `yaml:"render"`
	Camera     CameraConfig     `yaml:"camera"`
	Headless   HeadlessConfig   `yaml:"headless"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	TargetFPS     int      `yaml:"target_fps"`
	MaxPixelRatio float64  `yaml:"max_pixel_ratio"` // Device pixel ratio is capped at this
	Background    [3]uint8 `yaml:"background"`
}

// ParticlesConfig holds the lattice dimensions.
type ParticlesConfig struct {
	Segments int     `yaml:"segments"` // Particles per cube edge (S)
	Width    float64 `yaml:"width"`    // Cube edge length in world units
}

// ImageConfig holds portrait sampling parameters.
type ImageConfig struct {
	Path        string  `yaml:"path"`         // File path or http(s) URL
	CanvasSize  int     `yaml:"canvas_size"`  // Square canvas the image is rasterized onto
	Threshold   int     `yaml:"threshold"`    // Red channel below this joins the candidate pool
	LoadTimeout float64 `yaml:"load_timeout"` // Seconds before the load is abandoned
	UseDepth    bool    `yaml:"use_depth"`    // Write the brightness depth cue into z
}

// SimulationConfig holds simulation program parameters.
type SimulationConfig struct {
	ImageTime bool    `yaml:"image_time"` // Feed elapsed time to the image variable
	CubeTwist float64 `yaml:"cube_twist"` // Peak wobble rotation per frame (radians)
}

// RenderConfig holds the initial point-cloud uniforms.
type RenderConfig struct {
	Strength   float64  `yaml:"strength"` // Noise strength [0, 2]
	Speed      float64  `yaml:"speed"`    // Noise speed [0, 1]
	Size       float64  `yaml:"size"`     // Point size [1, 50]
	Slider     float64  `yaml:"slider"`   // Blend between cube (0) and image (1)
	PointColor [3]uint8 `yaml:"point_color"`
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	FOV         float64 `yaml:"fov"` // Vertical field of view in degrees
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Distance    float64 `yaml:"distance"`
	Damping     float64 `yaml:"damping"`      // Fraction of orbit velocity applied per frame
	RotateSpeed float64 `yaml:"rotate_speed"` // Radians per dragged pixel
	ZoomSpeed   float64 `yaml:"zoom_speed"`   // Distance scale per wheel notch
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

// HeadlessConfig holds parameters for runs without a window.
type HeadlessConfig struct {
	DT               float64 `yaml:"dt"` // Seconds of sketch time per tick
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	PixelRatio       float64 `yaml:"pixel_ratio"`
	SnapshotInterval int     `yaml:"snapshot_interval"` // Ticks between PNG snapshots (0 = final only)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Ticks in the rolling perf window
	StatsWindow float64 `yaml:"stats_window"` // Seconds between perf log/CSV records
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumParticles  int           // Segments^3
	TextureWidth  int           // Segments
	TextureHeight int           // Segments^2
	Width32       float32       // Particles.Width as float32
	LoadTimeout   time.Duration // Image.LoadTimeout as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range value in one error.
func (c *Config) Validate() error {
	var errs []error
	if c.Particles.Segments < 1 {
		errs = append(errs, fmt.Errorf("particles.segments must be >= 1, got %d", c.Particles.Segments))
	}
	if c.Particles.Width <= 0 {
		errs = append(errs, fmt.Errorf("particles.width must be > 0, got %g", c.Particles.Width))
	}
	if c.Image.CanvasSize < 1 {
		errs = append(errs, fmt.Errorf("image.canvas_size must be >= 1, got %d", c.Image.CanvasSize))
	}
	if c.Image.Threshold < 1 || c.Image.Threshold > 256 {
		errs = append(errs, fmt.Errorf("image.threshold must be in [1, 256], got %d", c.Image.Threshold))
	}
	if c.Image.LoadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("image.load_timeout must be > 0, got %g", c.Image.LoadTimeout))
	}
	if c.Screen.MaxPixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("screen.max_pixel_ratio must be > 0, got %g", c.Screen.MaxPixelRatio))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near/far must satisfy 0 < near < far, got %g/%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Headless.Width < 1 || c.Headless.Height < 1 {
		errs = append(errs, fmt.Errorf("headless.width and headless.height must be >= 1, got %dx%d", c.Headless.Width, c.Headless.Height))
	}
	if c.Headless.PixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("headless.pixel_ratio must be > 0, got %g", c.Headless.PixelRatio))
	}
	if c.Headless.DT <= 0 {
		errs = append(errs, fmt.Errorf("headless.dt must be > 0, got %g", c.Headless.DT))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	s := c.Particles.Segments
	c.Derived.NumParticles = s * s * s
	c.Derived.TextureWidth = s
	c.Derived.TextureHeight = s * s
	c.Derived.Width32 = float32(c.Particles.Width)
	c.Derived.LoadTimeout = time.Duration(c.Image.LoadTimeout * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
