package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Frames between stats records (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	restorePath := flag.String("restore", "", "Snapshot file to restore particle state from")
	seed := flag.Int64("seed", 0, "Spawn jitter seed (0 = use config)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:        *seed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		RestorePath: *restorePath,
		Headless:    *headless,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *maxFrames))
	}
	os.Exit(runWindow(cfg, opts, *maxFrames))
}

// runHeadless steps the simulation at the fixed delta until maxFrames.
func runHeadless(cfg *config.Config, opts game.Options, maxFrames int64) int {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"particles", g.Simulation().Len(),
		"fixed_dt", cfg.Simulation.FixedDT,
		"max_frames", maxFrames,
	)

	if g.Simulation().Len() == 0 {
		slog.Warn("no particles to simulate")
		return 0
	}

	for {
		if err := g.UpdateHeadless(); err != nil {
			slog.Error("simulation failed", "error", err, "frame", g.Frames())
			return 1
		}
		if maxFrames > 0 && g.Frames() >= maxFrames {
			slog.Info("max frames reached", "frame", g.Frames(), "sim_time", g.SimTime())
			return 0
		}
	}
}

// runWindow opens the viewer and runs until the window closes.
func runWindow(cfg *config.Config, opts game.Options, maxFrames int64) int {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "SPH Fluid")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxFrames > 0 && g.Frames() >= maxFrames {
			break
		}
	}
	return 0
}
