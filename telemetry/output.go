package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/morph/config"
)

// csvSink appends rows of T to one CSV file, writing the header once.
type csvSink[T any] struct {
	name   string
	f      *os.File
	header bool
}

func openSink[T any](dir, name string) (*csvSink[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink[T]{name: name, f: f}, nil
}

func (s *csvSink[T]) write(row T) error {
	rows := []T{row}
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(rows, s.f)
	} else {
		err = gocsv.Marshal(rows, s.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}

// OutputManager writes a run's config snapshot plus window and perf CSVs.
// A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink[WindowStats]
	perf      *csvSink[PerfRecord]
}

// NewOutputManager creates dir and the CSV files in it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	telemetry, err := openSink[WindowStats](dir, "telemetry.csv")
	if err != nil {
		return nil, err
	}
	perf, err := openSink[PerfRecord](dir, "perf.csv")
	if err != nil {
		telemetry.close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: telemetry, perf: perf}, nil
}

// WriteConfig saves the configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window row to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write(stats)
}

// WritePerf appends the frame timing summary to perf.csv.
func (om *OutputManager) WritePerf(stats FrameStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.Record(windowEnd))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close())
}
