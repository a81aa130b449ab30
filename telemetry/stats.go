package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	State           string  `csv:"state"`

	// Work done during the window
	Steps        int `csv:"steps"`         // Simulation Compute calls
	Frames       int `csv:"frames"`        // Particle cloud renders
	StatusFrames int `csv:"status_frames"` // Status screen renders

	// Frame interval distribution (milliseconds)
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSP10  float64 `csv:"frame_ms_p10"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`

	// Point-cloud parameters at window end
	Strength float32 `csv:"strength"`
	Speed    float32 `csv:"speed"`
	Size     float32 `csv:"size"`
	Slider   float32 `csv:"slider"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("state", s.State),
		slog.Int("steps", s.Steps),
		slog.Int("frames", s.Frames),
		slog.Int("status_frames", s.StatusFrames),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_p50", s.FrameMSP50),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
		slog.Float64("slider", float64(s.Slider)),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"state", s.State,
		"steps", s.Steps,
		"frames", s.Frames,
		"status_frames", s.StatusFrames,
		"frame_ms_mean", s.FrameMSMean,
		"frame_ms_p10", s.FrameMSP10,
		"frame_ms_p50", s.FrameMSP50,
		"frame_ms_p90", s.FrameMSP90,
		"strength", s.Strength,
		"speed", s.Speed,
		"size", s.Size,
		"slider", s.Slider,
	)
}
