package types

import "time"

// ProgressMessage is an immutable progress snapshot emitted to observers.
// Percent only increases within a job, except for the terminal reset to 0
// on cancellation.
type ProgressMessage struct {
	JobID        string    `json:"jobId"`
	Type         string    `json:"type"` // "progress", "status", "complete", "error"
	Percent      int       `json:"percent"`
	Message      string    `json:"message,omitempty"`
	CurrentTrack int       `json:"currentTrack"`
	TotalTracks  int       `json:"totalTracks"`
	Speed        string    `json:"speed"` // e.g. "2.5 songs/min"
	Timestamp    time.Time `json:"timestamp"`
}
