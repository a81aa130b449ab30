package app

import (
	"log/slog"

	"github.com/pthm-cable/morph/telemetry"
)

// flushStats writes a stats window once enough frames have passed.
func (a *App[T]) flushStats() {
	if !a.collector.ShouldFlush(a.tick) {
		return
	}

	stats := a.collector.Flush(a.tick, a.state.String(), a.params)
	perfStats := a.perf.Stats()

	if a.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if a.output != nil {
		if err := a.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := a.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Snapshot describes the current frame for reproduction. image is the PNG
// file name written alongside it, if any.
func (a *App[T]) Snapshot(image string) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   a.rngSeed,
		Tick:      a.tick,
		Time:      a.elapsed,
		State:     a.state.String(),
		Segments:  a.cfg.Particles.Segments,
		ImagePath: a.cfg.Image.Path,
		Params:    a.params,
		Image:     image,
	}
}
