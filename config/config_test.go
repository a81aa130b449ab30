package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Particles.Segments != 32 {
		t.Errorf("expected 32 segments, got %d", cfg.Particles.Segments)
	}
	if cfg.Derived.NumParticles != 32*32*32 {
		t.Errorf("expected %d particles, got %d", 32*32*32, cfg.Derived.NumParticles)
	}
	if cfg.Derived.TextureWidth != 32 || cfg.Derived.TextureHeight != 1024 {
		t.Errorf("expected 32x1024 texture, got %dx%d", cfg.Derived.TextureWidth, cfg.Derived.TextureHeight)
	}
	if cfg.Image.Threshold != 150 || cfg.Image.CanvasSize != 750 {
		t.Errorf("unexpected image defaults: %+v", cfg.Image)
	}
	if cfg.Derived.LoadTimeout != 10*time.Second {
		t.Errorf("expected 10s load timeout, got %v", cfg.Derived.LoadTimeout)
	}
	if cfg.Screen.MaxPixelRatio != 2 {
		t.Errorf("expected pixel ratio cap 2, got %v", cfg.Screen.MaxPixelRatio)
	}
	if cfg.Screen.Background != [3]uint8{255, 255, 255} {
		t.Errorf("expected white background, got %v", cfg.Screen.Background)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "particles:\n  segments: 8\nrender:\n  slider: 0.25\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Particles.Segments != 8 {
		t.Errorf("expected 8 segments, got %d", cfg.Particles.Segments)
	}
	if cfg.Derived.NumParticles != 512 {
		t.Errorf("expected 512 particles, got %d", cfg.Derived.NumParticles)
	}
	if cfg.Render.Slider != 0.25 {
		t.Errorf("expected slider 0.25, got %v", cfg.Render.Slider)
	}
	// Untouched fields keep defaults
	if cfg.Particles.Width != 2.0 {
		t.Errorf("expected default width 2, got %v", cfg.Particles.Width)
	}
	if cfg.Render.Strength != 0.378 {
		t.Errorf("expected default strength 0.378, got %v", cfg.Render.Strength)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero segments", "particles:\n  segments: 0\n", "particles.segments"},
		{"negative width", "particles:\n  width: -1\n", "particles.width"},
		{"threshold", "image:\n  threshold: 0\n", "image.threshold"},
		{"timeout", "image:\n  load_timeout: 0\n", "image.load_timeout"},
		{"near far", "camera:\n  near: 5\n  far: 1\n", "camera near/far"},
		{"headless size", "headless:\n  width: 0\n  height: 0\n", "headless.width"},
		{"headless ratio", "headless:\n  pixel_ratio: 0\n", "headless.pixel_ratio"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	cfg.Particles.Segments = 4
	cfg.Image.UseDepth = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if loaded.Particles.Segments != 4 || !loaded.Image.UseDepth {
		t.Errorf("roundtrip lost values: %+v %+v", loaded.Particles, loaded.Image)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
