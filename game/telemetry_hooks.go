package game

import (
	"log/slog"

	"github.com/pthm-cable/sph/telemetry"
)

// flushTelemetry records frame and perf stats and handles bookmarks.
func (g *Game) flushTelemetry() {
	stats := g.FrameStats()
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteFrame(stats); err != nil {
		slog.Error("failed to write frame stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.Frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// FrameStats reduces the current particle and field state.
func (g *Game) FrameStats() telemetry.FrameStats {
	in := telemetry.FrameInput{
		Frame:      g.Frames(),
		SimTimeSec: g.simTime,
		Mass:       g.cfg.Fluid.Mass,
		Densities:  g.sim.Densities(),
		Velocities: g.sim.Velocities(),
	}
	if g.surface != nil {
		mesh := g.surface.Mesh()
		in.Field = g.surface.Field().Values
		in.Triangles = mesh.Count()
		in.Dropped = mesh.Dropped()
	}
	return telemetry.ComputeFrameStats(in)
}

// saveSnapshot writes the particle state to the snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "frame", snapshot.Frame)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := telemetry.NewSnapshot(g.Frames(), g.sim.Positions(), g.sim.Velocities(), g.sim.Densities())
	snapshot.Seed = g.seed
	snapshot.BoundsCenter = g.cfg.Derived.BoundsCenter
	snapshot.BoundsSize = g.cfg.Derived.BoundsSize
	snapshot.Bookmark = bookmark
	return snapshot
}
