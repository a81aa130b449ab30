package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of a frame, in execution order.
type Phase int

const (
	PhaseInput    Phase = iota // Input handling and camera damping
	PhaseLoad                  // Image load polling and simulation setup
	PhaseSimulate              // One Compute call
	PhaseUniforms              // Copying simulation output into render uniforms
	PhaseRender                // Particle cloud or status screen
	numPhases
)

var phaseNames = [numPhases]string{"input", "load", "simulate", "uniforms", "render"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// frameTiming is where one frame's time went.
type frameTiming struct {
	work     time.Duration // BeginFrame to EndFrame
	phases   [numPhases]time.Duration
	interval time.Duration // Since the previous Present; zero for the first frame
}

// FrameTimer measures frames over a rolling window.
// Call BeginFrame, Enter for each phase, Present once the frame is drawn,
// then EndFrame.
type FrameTimer struct {
	now func() time.Time

	ring  []frameTiming
	next  int
	count int

	cur         frameTiming
	frameStart  time.Time
	phaseStart  time.Time
	phase       Phase
	lastPresent time.Time
}

// NewFrameTimer creates a timer averaging over window frames.
func NewFrameTimer(window int) *FrameTimer {
	return NewFrameTimerClock(window, time.Now)
}

// NewFrameTimerClock is NewFrameTimer with an explicit clock.
func NewFrameTimerClock(window int, now func() time.Time) *FrameTimer {
	if window < 1 {
		window = 60
	}
	return &FrameTimer{
		now:   now,
		ring:  make([]frameTiming, window),
		phase: -1,
	}
}

// BeginFrame starts timing a frame.
func (t *FrameTimer) BeginFrame() {
	t.frameStart = t.now()
	t.cur = frameTiming{}
	t.phase = -1
}

// Enter closes the running phase and starts p.
func (t *FrameTimer) Enter(p Phase) {
	now := t.now()
	t.closePhase(now)
	t.phase = p
	t.phaseStart = now
}

func (t *FrameTimer) closePhase(now time.Time) {
	if t.phase >= 0 && t.phase < numPhases {
		t.cur.phases[t.phase] += now.Sub(t.phaseStart)
	}
	t.phase = -1
}

// Present marks the frame as shown and returns the interval since the
// previous presented frame (zero for the first).
func (t *FrameTimer) Present() time.Duration {
	now := t.now()
	if !t.lastPresent.IsZero() {
		t.cur.interval = now.Sub(t.lastPresent)
	}
	t.lastPresent = now
	return t.cur.interval
}

// EndFrame closes the running phase and stores the frame.
func (t *FrameTimer) EndFrame() {
	now := t.now()
	t.closePhase(now)
	t.cur.work = now.Sub(t.frameStart)

	t.ring[t.next] = t.cur
	t.next = (t.next + 1) % len(t.ring)
	if t.count < len(t.ring) {
		t.count++
	}
}

// FrameStats summarizes the frames in the window.
type FrameStats struct {
	Frames int

	AvgWork time.Duration // Time spent inside the frame loop
	MaxWork time.Duration

	// Average time per frame in each phase
	Phases [numPhases]time.Duration

	// Presentation rate
	AvgInterval time.Duration
	FPS         float64
}

// Stats computes the window summary.
func (t *FrameTimer) Stats() FrameStats {
	var s FrameStats
	if t.count == 0 {
		return s
	}

	var work, interval time.Duration
	intervals := 0
	for i := 0; i < t.count; i++ {
		f := t.ring[i]
		work += f.work
		if f.work > s.MaxWork {
			s.MaxWork = f.work
		}
		for p := range f.phases {
			s.Phases[p] += f.phases[p]
		}
		if f.interval > 0 {
			interval += f.interval
			intervals++
		}
	}

	n := time.Duration(t.count)
	s.Frames = t.count
	s.AvgWork = work / n
	for p := range s.Phases {
		s.Phases[p] /= n
	}
	if intervals > 0 {
		s.AvgInterval = interval / time.Duration(intervals)
		s.FPS = float64(time.Second) / float64(s.AvgInterval)
	}
	return s
}

// Phase returns the average time per frame spent in p.
func (s FrameStats) Phase(p Phase) time.Duration {
	if p < 0 || p >= numPhases {
		return 0
	}
	return s.Phases[p]
}

// Share returns p's fraction of the frame work, in [0, 1].
func (s FrameStats) Share(p Phase) float64 {
	if s.AvgWork <= 0 {
		return 0
	}
	return float64(s.Phase(p)) / float64(s.AvgWork)
}

// Dominant returns the phase with the largest average time.
func (s FrameStats) Dominant() Phase {
	best := PhaseInput
	for p := PhaseInput; p < numPhases; p++ {
		if s.Phases[p] > s.Phases[best] {
			best = p
		}
	}
	return best
}

// FrameMS returns the average presentation interval in milliseconds.
func (s FrameStats) FrameMS() float64 {
	return float64(s.AvgInterval) / float64(time.Millisecond)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Float64("fps", s.FPS),
		slog.Float64("frame_ms", s.FrameMS()),
		slog.Int64("work_us", s.AvgWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
		slog.String("dominant", s.Dominant().String()),
	}
	for p := PhaseInput; p < numPhases; p++ {
		attrs = append(attrs, slog.Int64(p.String()+"_us", s.Phases[p].Microseconds()))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the summary.
func (s FrameStats) LogStats() {
	slog.Info("perf", "window", s)
}

// PerfRecord is one perf.csv row.
type PerfRecord struct {
	WindowEnd  int64   `csv:"window_end"`
	Frames     int     `csv:"frames"`
	FPS        float64 `csv:"fps"`
	FrameMS    float64 `csv:"frame_ms"`
	WorkUS     int64   `csv:"work_us"`
	MaxWorkUS  int64   `csv:"max_work_us"`
	InputUS    int64   `csv:"input_us"`
	LoadUS     int64   `csv:"load_us"`
	SimulateUS int64   `csv:"simulate_us"`
	UniformsUS int64   `csv:"uniforms_us"`
	RenderUS   int64   `csv:"render_us"`
	Dominant   string  `csv:"dominant"`
}

// Record flattens the summary for CSV output.
func (s FrameStats) Record(windowEnd int64) PerfRecord {
	return PerfRecord{
		WindowEnd:  windowEnd,
		Frames:     s.Frames,
		FPS:        s.FPS,
		FrameMS:    s.FrameMS(),
		WorkUS:     s.AvgWork.Microseconds(),
		MaxWorkUS:  s.MaxWork.Microseconds(),
		InputUS:    s.Phases[PhaseInput].Microseconds(),
		LoadUS:     s.Phases[PhaseLoad].Microseconds(),
		SimulateUS: s.Phases[PhaseSimulate].Microseconds(),
		UniformsUS: s.Phases[PhaseUniforms].Microseconds(),
		RenderUS:   s.Phases[PhaseRender].Microseconds(),
		Dominant:   s.Dominant().String(),
	}
}
