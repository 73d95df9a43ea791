package types

import "time"

// ContentKind represents what a Spotify URL points at
type ContentKind string

const (
	KindTrack    ContentKind = "track"
	KindAlbum    ContentKind = "album"
	KindPlaylist ContentKind = "playlist"
)

// Valid reports whether the kind is one spotdl understands
func (k ContentKind) Valid() bool {
	switch k {
	case KindTrack, KindAlbum, KindPlaylist:
		return true
	}
	return false
}

// JobStatus represents the current status of a download job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobSpec describes one spotdl invocation before it is started
type JobSpec struct {
	URL     string      `json:"url"`
	Kind    ContentKind `json:"type"`
	Threads int         `json:"threads"`
	Dir     string      `json:"dir,omitempty"`
}

// Job is one spotdl invocation. Only one job may be active at a time.
type Job struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Kind        ContentKind `json:"type"`
	Status      JobStatus   `json:"status"`
	Error       string      `json:"error,omitempty"`
	Tracks      int         `json:"tracks"`
	TotalTracks int         `json:"totalTracks"`
	CreatedAt   time.Time   `json:"createdAt"`
	StartedAt   *time.Time  `json:"startedAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// Outcome is the terminal state of a finished job
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is delivered once per job, after the spotdl process has exited
// and both output readers have drained.
type Result struct {
	Outcome     Outcome `json:"outcome"`
	Message     string  `json:"message"`
	Tracks      int     `json:"tracks"`
	TotalTracks int     `json:"totalTracks"`
}
