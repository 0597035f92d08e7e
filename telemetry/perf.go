package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one frame: the pipeline sub-step phases, then the surface.
const (
	PhaseExternalForces = "external_forces"
	PhaseSpatialHash    = "spatial_hash"
	PhaseSort           = "sort"
	PhaseDensity        = "density"
	PhasePressure       = "pressure"
	PhaseViscosity      = "viscosity"
	PhaseIntegrate      = "integrate"
	PhaseFieldSample    = "field_sample"
	PhaseSurfaceExtract = "surface_extract"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseExternalForces, PhaseSpatialHash, PhaseSort,
	PhaseDensity, PhasePressure, PhaseViscosity,
	PhaseIntegrate, PhaseFieldSample, PhaseSurfaceExtract,
}

// PerfSample holds timing data for a single frame.
// A phase that runs once per sub-step accumulates across the frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks per-phase timings over a rolling window of frames.
// It is not safe for concurrent use; phases are reported from the frame loop.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Render timing (graphics mode)
	lastRenderTime time.Time
	renderDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new simulation frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the running phase and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
}

// RecordRender records the time between two rendered frames.
func (p *PerfCollector) RecordRender() {
	now := time.Now()
	if !p.lastRenderTime.IsZero() {
		p.renderDuration = now.Sub(p.lastRenderTime)
	}
	p.lastRenderTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	// Simulation throughput, ignoring render time
	FramesPerSecond float64

	// Render timing (graphics mode)
	RenderDuration time.Duration
	FPS            float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.renderDuration > 0 {
		fps = float64(time.Second) / float64(p.renderDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:       make(map[string]time.Duration),
			PhasePct:       make(map[string]float64),
			RenderDuration: p.renderDuration,
			FPS:            fps,
		}
	}

	var total, minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  perSec,
		RenderDuration:   p.renderDuration,
		FPS:              fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd         int64   `csv:"window_end"`
	AvgFrameUS        int64   `csv:"avg_frame_us"`
	MinFrameUS        int64   `csv:"min_frame_us"`
	MaxFrameUS        int64   `csv:"max_frame_us"`
	FramesPerSec      float64 `csv:"frames_per_sec"`
	FPS               float64 `csv:"fps"`
	ExternalForcesPct float64 `csv:"external_forces_pct"`
	SpatialHashPct    float64 `csv:"spatial_hash_pct"`
	SortPct           float64 `csv:"sort_pct"`
	DensityPct        float64 `csv:"density_pct"`
	PressurePct       float64 `csv:"pressure_pct"`
	ViscosityPct      float64 `csv:"viscosity_pct"`
	IntegratePct      float64 `csv:"integrate_pct"`
	FieldSamplePct    float64 `csv:"field_sample_pct"`
	SurfaceExtractPct float64 `csv:"surface_extract_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		AvgFrameUS:        s.AvgFrameDuration.Microseconds(),
		MinFrameUS:        s.MinFrameDuration.Microseconds(),
		MaxFrameUS:        s.MaxFrameDuration.Microseconds(),
		FramesPerSec:      s.FramesPerSecond,
		FPS:               s.FPS,
		ExternalForcesPct: s.PhasePct[PhaseExternalForces],
		SpatialHashPct:    s.PhasePct[PhaseSpatialHash],
		SortPct:           s.PhasePct[PhaseSort],
		DensityPct:        s.PhasePct[PhaseDensity],
		PressurePct:       s.PhasePct[PhasePressure],
		ViscosityPct:      s.PhasePct[PhaseViscosity],
		IntegratePct:      s.PhasePct[PhaseIntegrate],
		FieldSamplePct:    s.PhasePct[PhaseFieldSample],
		SurfaceExtractPct: s.PhasePct[PhaseSurfaceExtract],
	}
}
