package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/morph/render"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot describes one captured frame. It is written next to the PNG so
// a frame can be reproduced from the same seed and parameters.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Tick  int64   `json:"tick"`
	Time  float32 `json:"time"`
	State string  `json:"state"`

	Segments  int           `json:"segments"`
	ImagePath string        `json:"image_path"`
	Params    render.Params `json:"params"`

	// Image is the PNG file name, relative to the snapshot.
	Image string `json:"image,omitempty"`
}

// SnapshotBase returns the shared file stem for a tick.
func SnapshotBase(tick int64) string {
	return fmt.Sprintf("frame_%08d", tick)
}

// SaveSnapshot writes a snapshot to dir as JSON.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(dir, SnapshotBase(snapshot.Tick)+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from a JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported (want %d)", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
