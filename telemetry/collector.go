package telemetry

import (
	"time"

	"github.com/pthm-cable/morph/render"
)

// Collector accumulates frame events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Counters for current window
	steps        int
	frames       int
	statusFrames int
	frameMS      []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds
// dt: nominal seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep records one simulation Compute call.
func (c *Collector) RecordStep() {
	c.steps++
}

// RecordFrame records one rendered frame. status is true when the status
// screen was drawn instead of the particle cloud. interval is the wall time
// since the previous frame (zero if unknown).
func (c *Collector) RecordFrame(status bool, interval time.Duration) {
	if status {
		c.statusFrames++
	} else {
		c.frames++
	}
	if interval > 0 {
		c.frameMS = append(c.frameMS, float64(interval)/float64(time.Millisecond))
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, state string, params render.Params) WindowStats {
	mean, p10, p50, p90 := ComputeDistribution(c.frameMS)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		State:           state,

		Steps:        c.steps,
		Frames:       c.frames,
		StatusFrames: c.statusFrames,

		FrameMSMean: mean,
		FrameMSP10:  p10,
		FrameMSP50:  p50,
		FrameMSP90:  p90,

		Strength: params.Strength,
		Speed:    params.Speed,
		Size:     params.Size,
		Slider:   params.Slider,
	}

	c.windowStartTick = currentTick
	c.steps = 0
	c.frames = 0
	c.statusFrames = 0
	c.frameMS = c.frameMS[:0]

	return stats
}
