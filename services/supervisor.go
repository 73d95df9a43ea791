package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"cadenza/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyRunning is returned by Start while a job is active.
	ErrAlreadyRunning = errors.New("a download is already running")
	// ErrNoActiveJob is returned by Cancel when there is nothing to cancel.
	ErrNoActiveJob = errors.New("no active download to cancel")
)

// Supervisor owns the spotdl process lifecycle: spawn, concurrent output
// reading, cancellation, and the terminal progress snapshot. Exactly one
// job may be active at a time.
type Supervisor interface {
	Start(spec types.JobSpec) (types.Job, <-chan types.Result, error)
	Cancel() error
	CurrentJob() (types.Job, bool)
	LastJob() (types.Job, bool)
}

// runState is the live half of a job: the spawned pid and the
// cancellation flag, owned by exactly one run loop.
type runState struct {
	job       *types.Job
	pid       int
	cancelled atomic.Bool
}

type supervisor struct {
	spotdlPath string
	sink       ProgressSink

	mu       sync.Mutex
	starting bool
	active   *runState // non-nil from spawn until cancel or exit
	current  *types.Job
	last     *types.Job
}

// NewSupervisor creates a supervisor that runs the given spotdl binary
// and reports progress to sink.
func NewSupervisor(spotdlPath string, sink ProgressSink) Supervisor {
	return &supervisor{
		spotdlPath: spotdlPath,
		sink:       sink,
	}
}

// Start spawns spotdl for the given spec. Slot acquisition and spawning
// are synchronous, so ErrAlreadyRunning and spawn failures surface to
// the caller immediately; completion is delivered on the returned
// channel once the process exits and both output readers have drained.
func (s *supervisor) Start(spec types.JobSpec) (types.Job, <-chan types.Result, error) {
	s.mu.Lock()
	if s.starting || s.active != nil {
		s.mu.Unlock()
		return types.Job{}, nil, ErrAlreadyRunning
	}
	s.starting = true
	s.mu.Unlock()

	cmd, stdout, stderr, err := s.spawn(spec)
	if err != nil {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
		return types.Job{}, nil, err
	}

	now := time.Now()
	job := &types.Job{
		ID:        uuid.New().String(),
		URL:       spec.URL,
		Kind:      spec.Kind,
		Status:    types.JobStatusProcessing,
		CreatedAt: now,
		StartedAt: &now,
	}
	rs := &runState{job: job, pid: cmd.Process.Pid}

	// Register the run before launching it, so a fast-exiting process
	// cannot race its own slot release.
	s.mu.Lock()
	s.starting = false
	s.active = rs
	s.current = job
	s.mu.Unlock()

	s.emit(job.ID, "status", Snapshot{
		Percent: percentStarting,
		Message: "Starting download...",
	})

	results := make(chan types.Result, 1)
	go s.run(cmd, rs, NewAggregator(), stdout, stderr, results)

	return *job, results, nil
}

func (s *supervisor) spawn(spec types.JobSpec) (*exec.Cmd, io.Reader, io.Reader, error) {
	if err := os.MkdirAll(spec.Dir, 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("create download directory: %w", err)
	}

	cmd := exec.Command(s.spotdlPath, spotdlArgs(spec)...)
	cmd.Dir = spec.Dir
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("capture stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("capture stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("start spotdl: %w", err)
	}

	return cmd, stdout, stderr, nil
}

// run consumes both output streams, waits for the process, then emits
// the single terminal snapshot for the job.
func (s *supervisor) run(cmd *exec.Cmd, rs *runState, agg *Aggregator, stdout, stderr io.Reader, results chan<- types.Result) {
	handle := func(line string) {
		if snap, ok := agg.Apply(Classify(line)); ok {
			s.emit(rs.job.ID, "progress", snap)
		}
	}

	var g errgroup.Group
	g.Go(func() error { return pumpLines(stdout, handle) })
	g.Go(func() error { return pumpLines(stderr, handle) })
	if err := g.Wait(); err != nil {
		// Best-effort output parsing; a broken pipe read never fails
		// the job.
		log.Printf("reading spotdl output: %v", err)
	}

	waitErr := cmd.Wait()

	current, total := agg.Counts()
	var res types.Result
	switch {
	case rs.cancelled.Load():
		// Cancellation wins over the exit status of the killed process.
		s.emit(rs.job.ID, "status", Snapshot{
			Percent: 0,
			Message: "Download cancelled",
		})
		res = types.Result{
			Outcome: types.OutcomeCancelled,
			Message: "Download cancelled by user",
		}
	case waitErr == nil:
		s.emit(rs.job.ID, "complete", Snapshot{
			Percent:      100,
			Message:      "Download complete!",
			CurrentTrack: total,
			TotalTracks:  total,
			Speed:        agg.Speed(),
		})
		res = types.Result{
			Outcome:     types.OutcomeCompleted,
			Message:     "Download complete!",
			Tracks:      total,
			TotalTracks: total,
		}
	default:
		s.emit(rs.job.ID, "error", Snapshot{
			Percent:      0,
			Message:      "Download failed. Please check the URL and try again.",
			CurrentTrack: current,
			TotalTracks:  total,
		})
		res = types.Result{
			Outcome:     types.OutcomeFailed,
			Message:     "Download failed. Please check the URL and try again.",
			Tracks:      current,
			TotalTracks: total,
		}
	}

	s.finalize(rs, res)
	results <- res
	close(results)
}

// finalize releases the slot and records the terminal job state.
func (s *supervisor) finalize(rs *runState, res types.Result) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == rs {
		s.active = nil
	}

	rs.job.Tracks = res.Tracks
	rs.job.TotalTracks = res.TotalTracks
	rs.job.CompletedAt = &now
	switch res.Outcome {
	case types.OutcomeCompleted:
		rs.job.Status = types.JobStatusCompleted
	case types.OutcomeCancelled:
		rs.job.Status = types.JobStatusCancelled
	default:
		rs.job.Status = types.JobStatusFailed
		rs.job.Error = res.Message
	}

	if s.current == rs.job {
		s.current = nil
	}
	s.last = rs.job
}

// Cancel flags the active job as cancelled and terminates the spotdl
// process group. The slot is released immediately so a following Start
// is not blocked by the still-shutting-down process; a second Cancel
// returns ErrNoActiveJob.
func (s *supervisor) Cancel() error {
	s.mu.Lock()
	rs := s.active
	s.active = nil
	s.mu.Unlock()

	if rs == nil {
		return ErrNoActiveJob
	}

	rs.cancelled.Store(true)
	terminate(rs.pid)
	return nil
}

// CurrentJob returns a copy of the active job, if any.
func (s *supervisor) CurrentJob() (types.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return types.Job{}, false
	}
	return *s.current, true
}

// LastJob returns a copy of the most recently finished job, if any.
func (s *supervisor) LastJob() (types.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return types.Job{}, false
	}
	return *s.last, true
}

func (s *supervisor) emit(jobID, msgType string, snap Snapshot) {
	s.sink.Notify(types.ProgressMessage{
		JobID:        jobID,
		Type:         msgType,
		Percent:      snap.Percent,
		Message:      snap.Message,
		CurrentTrack: snap.CurrentTrack,
		TotalTracks:  snap.TotalTracks,
		Speed:        snap.Speed,
		Timestamp:    time.Now(),
	})
}

// spotdlArgs assembles the spotdl command line: MP3 output, a thread
// count for multi-track content, then the URL.
func spotdlArgs(spec types.JobSpec) []string {
	args := []string{"--format", "mp3"}
	if (spec.Kind == types.KindPlaylist || spec.Kind == types.KindAlbum) && spec.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(spec.Threads))
	}
	return append(args, spec.URL)
}
