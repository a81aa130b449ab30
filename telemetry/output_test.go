package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/morph/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}

	// Every method is safe on a nil manager.
	if err := om.WritePerf(FrameStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		stats := FrameStats{Frames: 60, AvgWork: time.Duration(i) * time.Millisecond}
		stats.Phases[PhaseRender] = stats.AvgWork
		if err := om.WritePerf(stats, i*60); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 60, State: "running"}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,frames,fps,frame_ms,work_us") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "180,60,") || !strings.HasSuffix(lines[3], ",3000,render") {
		t.Errorf("unexpected last row %q", lines[3])
	}

	data, err = os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "window_end,sim_time,state") {
		t.Errorf("unexpected telemetry header:\n%s", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
