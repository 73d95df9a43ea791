package types

// DownloadRequest is the body of POST /api/downloads
type DownloadRequest struct {
	URL     string      `json:"url" binding:"required"`
	Kind    ContentKind `json:"type"`
	Threads int         `json:"threads"`
}

// AudioFile represents a downloaded audio file (MP3, FLAC)
type AudioFile struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	Format   string         `json:"format"` // "mp3", "flac"
	Metadata *AudioMetadata `json:"metadata,omitempty"`
}

// AudioMetadata represents metadata for an audio file
type AudioMetadata struct {
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
}
