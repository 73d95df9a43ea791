package services

import (
	"fmt"
	"sync"
	"time"
)

// Progress percent layout: 5% for process start, 10% once the track
// count is known, 10-95% while downloading, 100% on success.
const (
	percentStarting   = 5
	percentDiscovered = 10
	downloadSpan      = 85
	percentCeiling    = 95
	percentConverting = 90
	midpointProgress  = 50
)

// Aggregator reduces classified output events into monotonic progress
// snapshots. Both stream readers feed the same instance; every method
// takes the lock, so the critical section is one line's worth of
// arithmetic.
type Aggregator struct {
	mu          sync.Mutex
	current     int
	total       int
	totalKnown  bool
	lastPercent int
	start       time.Time
}

// NewAggregator returns an aggregator for one job. Total defaults to 1
// so the progress fraction never divides by zero.
func NewAggregator() *Aggregator {
	return &Aggregator{
		total:       1,
		lastPercent: percentStarting,
		start:       time.Now(),
	}
}

// Apply folds one event into the state and returns a snapshot when the
// event is worth showing. Deduped events return ok=false.
func (a *Aggregator) Apply(ev Event) (snap Snapshot, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Speed reflects the state before this event, so the first
	// completion reports "calculating...".
	speed := a.speedLabel()

	switch ev.Kind {
	case EventCountDiscovered:
		a.total = ev.Count
		if a.total < 1 {
			a.total = 1
		}
		a.totalKnown = true
		// Discovery always re-baselines, even if a later playlist
		// query repeats it.
		a.lastPercent = percentDiscovered
		return Snapshot{
			Percent:      percentDiscovered,
			Message:      fmt.Sprintf("Found %d song(s), starting download...", a.total),
			CurrentTrack: 0,
			TotalTracks:  a.total,
		}, true

	case EventItemCompleted, EventItemSkipped:
		a.current++
		progress := midpointProgress
		if a.totalKnown {
			progress = int(float64(a.current) / float64(a.total) * downloadSpan)
		}
		percent := percentDiscovered + progress
		if percent > percentCeiling {
			percent = percentCeiling
		}
		if percent <= a.lastPercent {
			return Snapshot{}, false
		}
		a.lastPercent = percent
		msg := "Downloading..."
		if ev.Kind == EventItemSkipped {
			msg = "Processing..."
		}
		return Snapshot{
			Percent:      percent,
			Message:      msg,
			CurrentTrack: a.current,
			TotalTracks:  a.total,
			Speed:        speed,
		}, true

	case EventConverting:
		// Display-only peek; the baseline is untouched.
		percent := a.lastPercent
		if percent < percentConverting {
			percent = percentConverting
		}
		return Snapshot{
			Percent:      percent,
			Message:      "Converting to MP3...",
			CurrentTrack: a.current,
			TotalTracks:  a.total,
			Speed:        speed,
		}, true
	}

	return Snapshot{}, false
}

// Counts returns the tracks seen so far and the known total.
func (a *Aggregator) Counts() (current, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.total
}

// Speed returns the current throughput label, or "" when nothing has
// completed yet. Used for the terminal snapshot.
func (a *Aggregator) Speed() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == 0 {
		return ""
	}
	return a.speedLabel()
}

// speedLabel renders songs/min, or seconds per song below one per
// minute. Callers hold the lock.
func (a *Aggregator) speedLabel() string {
	elapsed := time.Since(a.start).Seconds()
	if a.current == 0 || elapsed <= 0 {
		return "calculating..."
	}
	perMin := float64(a.current) / elapsed * 60
	if perMin >= 1.0 {
		return fmt.Sprintf("%.1f songs/min", perMin)
	}
	return fmt.Sprintf("%.0fs/song", elapsed/float64(a.current))
}

// Snapshot is the aggregator's contribution to a ProgressMessage: the
// supervisor stamps job identity and timestamp on top.
type Snapshot struct {
	Percent      int
	Message      string
	CurrentTrack int
	TotalTracks  int
	Speed        string
}
