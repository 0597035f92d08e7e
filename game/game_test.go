package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sph/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Spawn.Counts = [3]int{4, 4, 4}
	cfg.Spawn.Size = 0.5
	cfg.Simulation.IterationsPerFrame = 1
	cfg.Simulation.Workers = 2
	cfg.Surface.Resolution = 12
	cfg.Telemetry.StatsWindow = 5
	return cfg
}

func TestHeadlessFrames(t *testing.T) {
	g, err := NewGame(testConfig(t), Options{Headless: true})
	require.NoError(t, err)
	defer g.Unload()

	require.NotNil(t, g.Surface())
	for range 10 {
		require.NoError(t, g.UpdateHeadless())
	}
	assert.Equal(t, int64(10), g.Frames())
	assert.InDelta(t, 10*g.cfg.Simulation.FixedDT, g.SimTime(), 1e-4)

	stats := g.FrameStats()
	assert.Equal(t, 64, stats.Particles)
	assert.Greater(t, stats.DensityMean, 0.0)
	assert.Greater(t, stats.FieldMax, 0.0)
}

func TestHeadless_SurfaceDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Surface.Enabled = false
	g, err := NewGame(cfg, Options{Headless: true})
	require.NoError(t, err)
	defer g.Unload()

	assert.Nil(t, g.Surface())
	require.NoError(t, g.UpdateHeadless())
	assert.Equal(t, int64(1), g.Frames())
	assert.Equal(t, 0, g.FrameStats().Triangles)
}

func TestPausedSurfaceReextractsWhenDirty(t *testing.T) {
	g, err := NewGame(testConfig(t), Options{Headless: true})
	require.NoError(t, err)
	defer g.Unload()

	require.NoError(t, g.UpdateHeadless())
	g.sim.Pause()
	require.NoError(t, g.UpdateHeadless())
	assert.Equal(t, int64(1), g.Frames())
	assert.False(t, g.surfaceDirty)

	g.setIsoLevel(g.surface.IsoLevel() + 1)
	assert.True(t, g.surfaceDirty)
	require.NoError(t, g.UpdateHeadless())
	assert.False(t, g.surfaceDirty)
	assert.Equal(t, int64(1), g.Frames())
}

func TestOutputAndSnapshots(t *testing.T) {
	outDir := t.TempDir()
	snapDir := t.TempDir()
	g, err := NewGame(testConfig(t), Options{
		Headless:    true,
		OutputDir:   outDir,
		SnapshotDir: snapDir,
		Seed:        7,
	})
	require.NoError(t, err)

	for range 10 {
		require.NoError(t, g.UpdateHeadless())
	}
	g.saveSnapshot(nil)
	positions := append(g.sim.Positions()[:0:0], g.sim.Positions()...)
	g.Unload()

	data, err := os.ReadFile(filepath.Join(outDir, "frames.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "density_mean")
	_, err = os.Stat(filepath.Join(outDir, "config.yaml"))
	assert.NoError(t, err)

	path := filepath.Join(snapDir, "snapshot_10.json")
	_, err = os.Stat(path)
	require.NoError(t, err)

	restored, err := NewGame(testConfig(t), Options{Headless: true, RestorePath: path})
	require.NoError(t, err)
	defer restored.Unload()
	assert.Equal(t, positions, restored.sim.Positions())
}

func TestRestoreMismatch(t *testing.T) {
	snapDir := t.TempDir()
	g, err := NewGame(testConfig(t), Options{Headless: true, SnapshotDir: snapDir})
	require.NoError(t, err)
	g.saveSnapshot(nil)
	g.Unload()

	cfg := testConfig(t)
	cfg.Spawn.Counts = [3]int{2, 2, 2}
	_, err = NewGame(cfg, Options{Headless: true, RestorePath: filepath.Join(snapDir, "snapshot_0.json")})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	g, err := NewGame(testConfig(t), Options{Headless: true})
	require.NoError(t, err)
	defer g.Unload()

	initial := append(g.sim.Positions()[:0:0], g.sim.Positions()...)
	for range 5 {
		require.NoError(t, g.UpdateHeadless())
	}
	g.reset()
	assert.Zero(t, g.SimTime())
	assert.True(t, g.surfaceDirty)
	assert.Equal(t, initial, g.sim.Positions())
}
