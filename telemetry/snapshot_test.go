package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/morph/render"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		RNGSeed:   42,
		Tick:      300,
		Time:      5,
		State:     "running",
		Segments:  32,
		ImagePath: "img/portrait-01.jpeg",
		Params:    render.Params{Strength: 0.378, Speed: 0.373, Size: 1, Slider: 1},
		Image:     SnapshotBase(300) + ".png",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "frame_00000300.json" {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if *loaded != *snapshot {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", *loaded, *snapshot)
	}
}

func TestSnapshotVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestSnapshotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snaps")

	if _, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion}, dir); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("snapshot dir not created: %v", err)
	}
}
