package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarises the fluid state at the end of a frame.
type FrameStats struct {
	Frame      int64   `csv:"frame"`
	SimTimeSec float64 `csv:"sim_time"`
	Particles  int     `csv:"particles"`

	// Density distribution
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	DensityMax  float64 `csv:"density_max"`

	// Motion
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"`

	// Surface
	FieldMin         float64 `csv:"field_min"`
	FieldMax         float64 `csv:"field_max"`
	Triangles        int     `csv:"triangles"`
	DroppedTriangles int     `csv:"dropped_triangles"`
}

// FrameInput is the raw state ComputeFrameStats reduces.
type FrameInput struct {
	Frame      int64
	SimTimeSec float64
	Mass       float64
	Densities  []float32
	Velocities []mgl32.Vec3
	Field      []float32 // optional
	Triangles  int
	Dropped    int
}

// Percentile returns the p-th quantile of a sorted slice, interpolating
// linearly between samples. p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeDistribution returns mean, population std and the 10/50/90th percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = math.Sqrt(stat.MomentAbout(2, values, mean, nil))

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// ComputeFrameStats reduces one frame of particle and field state.
func ComputeFrameStats(in FrameInput) FrameStats {
	s := FrameStats{
		Frame:            in.Frame,
		SimTimeSec:       in.SimTimeSec,
		Particles:        len(in.Densities),
		Triangles:        in.Triangles,
		DroppedTriangles: in.Dropped,
	}

	if len(in.Densities) > 0 {
		densities := toFloat64(in.Densities)
		s.DensityMean, s.DensityStd, s.DensityP10, s.DensityP50, s.DensityP90 = ComputeDistribution(densities)
		s.DensityMax = floats.Max(densities)
	}

	if len(in.Velocities) > 0 {
		speeds := make([]float64, len(in.Velocities))
		var sq float64
		for i, v := range in.Velocities {
			l2 := float64(v.Dot(v))
			sq += l2
			speeds[i] = math.Sqrt(l2)
		}
		s.SpeedMean = stat.Mean(speeds, nil)
		s.SpeedMax = floats.Max(speeds)
		s.KineticEnergy = 0.5 * in.Mass * sq
	}

	if len(in.Field) > 0 {
		field := toFloat64(in.Field)
		s.FieldMin = floats.Min(field)
		s.FieldMax = floats.Max(field)
	}

	return s
}

func toFloat64(src []float32) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("triangles", s.Triangles),
		slog.Int("dropped_triangles", s.DroppedTriangles),
	)
}

// LogStats logs the frame stats using slog.
func (s FrameStats) LogStats() {
	slog.Info("stats", "frame", s)
}
