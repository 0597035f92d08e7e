package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSpatialHash)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDensity)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseSpatialHash]; !ok {
		t.Error("expected spatial_hash phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDensity]; !ok {
		t.Error("expected density phase to be tracked")
	}
}

func TestPerfCollector_SubStepsAccumulate(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartFrame()
	for it := 0; it < 3; it++ {
		pc.StartPhase(PhaseSort)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseIntegrate)
	}
	pc.EndFrame()

	stats := pc.Stats()
	if got := stats.PhaseAvg[PhaseSort]; got < 600*time.Microsecond {
		t.Errorf("sort phase = %v, want >= 600us over three sub-steps", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSpatialHash)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseExternalForces)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhasePressure)
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[PhaseExternalForces]
	slow := stats.PhasePct[PhasePressure]
	if slow <= fast {
		t.Errorf("expected pressure (%v%%) > external_forces (%v%%)", slow, fast)
	}

	row := stats.ToCSV(5)
	if row.PressurePct != slow {
		t.Errorf("PressurePct = %v, want %v", row.PressurePct, slow)
	}
	if row.WindowEnd != 5 {
		t.Errorf("WindowEnd = %d, want 5", row.WindowEnd)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_RenderTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordRender()
	time.Sleep(16 * time.Millisecond)
	pc.RecordRender()

	stats := pc.Stats()
	if stats.RenderDuration < 15*time.Millisecond {
		t.Errorf("expected render duration >= 15ms, got %v", stats.RenderDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want (0, 70]", stats.FPS)
	}
}
