// Command meshdump runs the simulation headless and writes the extracted
// surface as a Wavefront OBJ file.
//
// Usage: go run ./cmd/meshdump -frames 300 -out fluid.obj
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/surface"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int64("frames", 300, "Frames to simulate before extracting")
	restorePath := flag.String("restore", "", "Snapshot file to restore particle state from")
	out := flag.String("out", "surface.obj", "Output OBJ path")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(*configPath, *restorePath, *frames, *out); err != nil {
		slog.Error("meshdump failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, restorePath string, frames int64, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Surface.Enabled = true

	g, err := game.NewGame(cfg, game.Options{Headless: true, RestorePath: restorePath})
	if err != nil {
		return err
	}
	defer g.Unload()

	for g.Simulation().Len() > 0 && g.Frames() < max(frames, 1) {
		if err := g.UpdateHeadless(); err != nil {
			return err
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	mesh := g.Surface().Mesh()
	if err := surface.WriteOBJ(f, mesh); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("mesh written",
		"path", out,
		"frame", g.Frames(),
		"triangles", mesh.Count(),
		"dropped", mesh.Dropped(),
	)
	return nil
}
