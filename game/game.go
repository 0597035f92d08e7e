// Package game wires the fluid simulation, surface extraction, telemetry and
// the raylib viewer into a frame loop.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/parallel"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/surface"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// maxFrameDelta caps the frame delta fed to the simulation in graphics mode.
const maxFrameDelta = float32(1.0 / 30.0)

// Options configures game behavior.
type Options struct {
	Seed        int64  // spawn seed override (0 = config seed)
	LogStats    bool   // periodically log frame and perf stats
	StatsWindow int    // frames between stats records (0 = config)
	SnapshotDir string // directory for bookmark snapshots (empty = disabled)
	OutputDir   string // directory for CSV output (empty = disabled)
	RestorePath string // snapshot to load particle state from
	Headless    bool   // skip the viewer
}

// Game holds the complete simulation and viewer state.
type Game struct {
	cfg  *config.Config
	pool *parallel.Pool

	sim          *fluid.Simulation
	surface      *surface.Surface // nil when surface extraction is disabled
	surfaceDirty bool             // re-extract even if no sub-step ran

	simTime float64

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsWindow      int
	snapshotDir      string
	seed             int64

	// Viewer (nil in headless mode)
	headless         bool
	camera           *camera.Camera
	background       *renderer.BackgroundRenderer
	particleRenderer *renderer.ParticleRenderer
	surfaceRenderer  *renderer.SurfaceRenderer
	hud              *ui.HUD
	controls         *ui.ControlsPanel
	perfPanel        *ui.PerfPanel
	overlays         *ui.OverlayRegistry
	screenWidth      float32
	screenHeight     float32
}

// NewGame builds the simulation from cfg. The viewer parts are created
// unless opts.Headless is set; they need an open raylib window.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Seed != 0 {
		cfg.Spawn.Seed = opts.Seed
	}
	statsWindow := opts.StatsWindow
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	if statsWindow <= 0 {
		statsWindow = 60
	}

	g := &Game{
		cfg:              cfg,
		pool:             parallel.NewPool(cfg.Simulation.Workers),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsWindow:      statsWindow,
		snapshotDir:      opts.SnapshotDir,
		seed:             cfg.Spawn.Seed,
		headless:         opts.Headless,
		surfaceDirty:     true,
	}

	model := fluid.NewSpikyModel(fluid.ModelParamsFromConfig(cfg))
	sim, err := fluid.NewSimulation(fluid.ParamsFromConfig(cfg), model, g.pool)
	if err != nil {
		g.pool.Close()
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	sim.SetObserver(g.perfCollector)
	g.sim = sim

	if cfg.Surface.Enabled {
		surf, err := surface.New(surface.ParamsFromConfig(cfg), model, g.pool)
		if err != nil {
			g.pool.Close()
			return nil, fmt.Errorf("creating surface: %w", err)
		}
		surf.Resize(sim.Len())
		surf.SetObserver(g.perfCollector)
		g.surface = surf
	}

	if opts.RestorePath != "" {
		if err := g.restore(opts.RestorePath); err != nil {
			g.pool.Close()
			return nil, err
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.pool.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		g.initViewer()
	}

	slog.Info("simulation created",
		"particles", sim.Len(),
		"seed", g.seed,
		"workers", g.pool.Workers(),
		"surface", g.surface != nil,
		"output_dir", om.Dir(),
	)
	return g, nil
}

func (g *Game) initViewer() {
	cfg := g.cfg
	g.screenWidth = float32(cfg.Screen.Width)
	g.screenHeight = float32(cfg.Screen.Height)
	g.camera = camera.New(cfg.Derived.BoundsCenter, cfg.Derived.BoundsSize)
	g.background = renderer.NewBackgroundRenderer(
		int32(g.screenWidth), int32(g.screenHeight),
		rl.Color{R: 28, G: 34, B: 46, A: 255}, rl.Color{R: 10, G: 12, B: 16, A: 255},
	)
	g.particleRenderer = renderer.NewParticleRenderer(float32(cfg.Fluid.Radius) * 0.25)
	g.surfaceRenderer = renderer.NewSurfaceRenderer()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 110, 220)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-250, 10, 240)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayMesh, g.surface != nil)
}

// restore loads particle state from a snapshot file.
func (g *Game) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := g.sim.Restore(snap.Positions(), snap.Velocities()); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	g.resetSurfaceHistory()
	slog.Info("snapshot restored", "path", path, "frame", snap.Frame, "particles", len(snap.Particles))
	return nil
}

// reset respawns the particles and drops the blended field.
func (g *Game) reset() {
	g.sim.Reset()
	g.simTime = 0
	g.resetSurfaceHistory()
}

func (g *Game) resetSurfaceHistory() {
	if g.surface != nil {
		g.surface.ResetHistory()
	}
	g.surfaceDirty = true
}

// setIsoLevel changes the surface threshold and re-extracts on the next frame.
func (g *Game) setIsoLevel(iso float32) {
	if g.surface == nil || iso == g.surface.IsoLevel() {
		return
	}
	g.surface.SetIsoLevel(iso)
	g.surfaceDirty = true
}

// Simulation returns the fluid simulation.
func (g *Game) Simulation() *fluid.Simulation { return g.sim }

// Surface returns the surface extractor, or nil when disabled.
func (g *Game) Surface() *surface.Surface { return g.surface }

// Frames returns the number of simulated frames.
func (g *Game) Frames() int64 { return int64(g.sim.Frames()) }

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Unload stops the workers and flushes output.
func (g *Game) Unload() {
	g.pool.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
