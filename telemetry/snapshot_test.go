package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	positions := []mgl32.Vec3{{0, 1, 2}, {-0.5, 0.25, 1}}
	velocities := []mgl32.Vec3{{1, 0, 0}, {0, -2, 0}}
	densities := []float32{630, 612.5}

	snapshot := NewSnapshot(1200, positions, velocities, densities)
	snapshot.Seed = 42
	snapshot.BoundsSize = mgl32.Vec3{2.5, 2.5, 2.5}
	snapshot.Bookmark = &Bookmark{Type: BookmarkSettled, Frame: 1200, Description: "test"}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_1200_settled.json") {
		t.Errorf("unexpected snapshot path %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.Frame != 1200 {
		t.Errorf("header mismatch: seed %d frame %d", loaded.Seed, loaded.Frame)
	}
	if loaded.BoundsSize != snapshot.BoundsSize {
		t.Errorf("bounds size = %v, want %v", loaded.BoundsSize, snapshot.BoundsSize)
	}
	if len(loaded.Particles) != 2 {
		t.Fatalf("got %d particles, want 2", len(loaded.Particles))
	}
	for i, p := range loaded.Positions() {
		if p != positions[i] {
			t.Errorf("position %d = %v, want %v", i, p, positions[i])
		}
	}
	for i, v := range loaded.Velocities() {
		if v != velocities[i] {
			t.Errorf("velocity %d = %v, want %v", i, v, velocities[i])
		}
	}
	if loaded.Particles[1].Density != 612.5 {
		t.Errorf("density = %f, want 612.5", loaded.Particles[1].Density)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSettled {
		t.Errorf("bookmark not preserved: %+v", loaded.Bookmark)
	}
}

func TestNewSnapshot_ShortDensities(t *testing.T) {
	s := NewSnapshot(0, []mgl32.Vec3{{}, {}}, nil, []float32{1})
	if s.Particles[1].Density != 0 || s.Particles[0].Density != 1 {
		t.Errorf("unexpected densities %+v", s.Particles)
	}
}

func TestLoadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected error for malformed file")
	}

	old := filepath.Join(dir, "old.json")
	if err := os.WriteFile(old, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(old); err == nil {
		t.Error("expected error for unknown version")
	}
}
