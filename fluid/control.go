package fluid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSnapshotMismatch is returned when restored state does not match the particle count.
	ErrSnapshotMismatch = errors.New("fluid: snapshot does not match simulation")
	// ErrTickInProgress is returned by Restore and Step when called from inside a tick or step.
	ErrTickInProgress = errors.New("fluid: tick in progress")
)

type request int

const (
	requestPause request = iota
	requestResume
	requestToggle
	requestStep
	requestReset
)

// control holds pause state and the requests deferred while a tick is running.
type control struct {
	mu         sync.Mutex
	paused     bool
	pauseAfter bool // pause once the current frame finishes
	inTick     bool
	pending    []request
	frames     uint64
}

// Pause stops future ticks.
func (s *Simulation) Pause() { s.request(requestPause) }

// Resume lets ticks run again.
func (s *Simulation) Resume() { s.request(requestResume) }

// TogglePause flips the paused state.
func (s *Simulation) TogglePause() { s.request(requestToggle) }

// StepOnce runs exactly one more frame and then pauses.
func (s *Simulation) StepOnce() { s.request(requestStep) }

// Reset respawns every particle from the spawn parameters and unpauses.
func (s *Simulation) Reset() { s.request(requestReset) }

// Paused reports whether ticks are currently suppressed.
func (s *Simulation) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Frames returns the number of frames that ran since creation.
func (s *Simulation) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Restore replaces positions and velocities, e.g. from a saved snapshot.
// Densities are cleared and the frame counter is left alone.
func (s *Simulation) Restore(positions, velocities []mgl32.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTick {
		return ErrTickInProgress
	}
	n := s.particles.Len()
	if len(positions) != n || len(velocities) != n {
		return fmt.Errorf("%w: %d positions and %d velocities for %d particles",
			ErrSnapshotMismatch, len(positions), len(velocities), n)
	}

	p := &s.particles
	copy(p.Positions, positions)
	copy(p.Velocities, velocities)
	copy(p.Predicted, positions)
	clear(p.Densities)
	clear(p.NearDensities)
	return nil
}

func (s *Simulation) request(r request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTick {
		s.pending = append(s.pending, r)
		return
	}
	s.apply(r)
}

// apply must be called with mu held and no tick in flight.
func (s *Simulation) apply(r request) {
	switch r {
	case requestPause:
		s.paused = true
		s.pauseAfter = false
	case requestResume:
		s.paused = false
	case requestToggle:
		s.paused = !s.paused
	case requestStep:
		s.paused = false
		s.pauseAfter = true
	case requestReset:
		s.spawn()
		s.paused = false
		s.pauseAfter = false
	}
}

func (s *Simulation) beginTick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return false
	}
	s.inTick = true
	return true
}

func (s *Simulation) endTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTick = false
	s.frames++
	if s.pauseAfter {
		s.pauseAfter = false
		s.paused = true
	}
	s.drainPending()
}

// beginStep is beginTick without the pause check.
func (s *Simulation) beginStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTick {
		return false
	}
	s.inTick = true
	return true
}

func (s *Simulation) endStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTick = false
	s.drainPending()
}

// drainPending must be called with mu held.
func (s *Simulation) drainPending() {
	for _, r := range s.pending {
		s.apply(r)
	}
	s.pending = s.pending[:0]
}
