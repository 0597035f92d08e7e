package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the particle state of one frame.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Frame   int64 `json:"frame"`

	BoundsCenter mgl32.Vec3 `json:"bounds_center"`
	BoundsSize   mgl32.Vec3 `json:"bounds_size"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's state.
type ParticleState struct {
	Position mgl32.Vec3 `json:"position"`
	Velocity mgl32.Vec3 `json:"velocity"`
	Density  float32    `json:"density"`
}

// NewSnapshot copies the given particle arrays into a snapshot.
// densities may be shorter than positions; missing entries are zero.
func NewSnapshot(frame int64, positions, velocities []mgl32.Vec3, densities []float32) *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Frame:     frame,
		Particles: make([]ParticleState, len(positions)),
	}
	for i := range positions {
		p := ParticleState{Position: positions[i]}
		if i < len(velocities) {
			p.Velocity = velocities[i]
		}
		if i < len(densities) {
			p.Density = densities[i]
		}
		s.Particles[i] = p
	}
	return s
}

// Positions returns the particle positions in index order.
func (s *Snapshot) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = p.Position
	}
	return out
}

// Velocities returns the particle velocities in index order.
func (s *Snapshot) Velocities() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = p.Velocity
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Bookmark != nil {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Frame, snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
