package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEnergySpike      BookmarkType = "energy_spike"
	BookmarkSettled          BookmarkType = "settled"
	BookmarkTriangleOverflow BookmarkType = "triangle_overflow"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int64        `csv:"frame"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// settledWindows is how many calm windows in a row count as settled.
const settledWindows = 5

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []FrameStats
	historySize int
	historyIdx  int
	historyFull bool

	calmWindows     int  // consecutive windows with kinetic energy near the mean
	settledReported bool // suppresses repeats until the fluid moves again
	overflowSeen    bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < settledWindows {
		historySize = settledWindows
	}
	return &BookmarkDetector{
		history:     make([]FrameStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats FrameStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkTriangleOverflow(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkEnergySpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats FrameStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []FrameStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) meanKineticEnergy() float64 {
	history := bd.getHistory()
	var sum float64
	for _, h := range history {
		sum += h.KineticEnergy
	}
	return sum / float64(len(history))
}

func (bd *BookmarkDetector) checkEnergySpike(stats FrameStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := bd.meanKineticEnergy()
	if avg <= 0 || stats.KineticEnergy <= avg*2.0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkEnergySpike,
		Frame:       stats.Frame,
		Description: fmt.Sprintf("Kinetic energy %.3g is %.1fx average (%.3g)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
	}
}

func (bd *BookmarkDetector) checkSettled(stats FrameStats) *Bookmark {
	avg := bd.meanKineticEnergy()
	calm := avg > 0 && math.Abs(stats.KineticEnergy-avg) <= 0.05*avg
	if !calm {
		bd.calmWindows = 0
		bd.settledReported = false
		return nil
	}

	bd.calmWindows++
	if bd.calmWindows < settledWindows || bd.settledReported {
		return nil
	}
	bd.settledReported = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Frame:       stats.Frame,
		Description: fmt.Sprintf("Kinetic energy steady at %.3g over %d windows", stats.KineticEnergy, bd.calmWindows),
	}
}

func (bd *BookmarkDetector) checkTriangleOverflow(stats FrameStats) *Bookmark {
	if bd.overflowSeen || stats.DroppedTriangles == 0 {
		return nil
	}
	bd.overflowSeen = true
	return &Bookmark{
		Type:        BookmarkTriangleOverflow,
		Frame:       stats.Frame,
		Description: fmt.Sprintf("Triangle buffer full: %d kept, %d dropped", stats.Triangles, stats.DroppedTriangles),
	}
}
