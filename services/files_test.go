package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeAudio(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	// Not a real audio file; metadata extraction falls back to the
	// filename and directory layout.
	require.NoError(t, os.WriteFile(path, []byte("not-audio"), 0644))
	return path
}

func TestScanAudioFiles(t *testing.T) {
	root := t.TempDir()
	fs := NewFileService()

	writeFakeAudio(t, root, "Artist", "Album", "01 - Song One.mp3")
	writeFakeAudio(t, root, "Loose Track.mp3")
	writeFakeAudio(t, root, "lossless.flac")
	writeFakeAudio(t, root, "cover.jpg") // not audio, ignored

	files, err := fs.ScanAudioFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	formats := map[string]int{}
	for _, f := range files {
		formats[f.Format]++
		assert.NotNil(t, f.Metadata)
		assert.False(t, filepath.IsAbs(f.Path))
	}
	assert.Equal(t, 2, formats["mp3"])
	assert.Equal(t, 1, formats["flac"])
}

func TestExtractMetadataFallback(t *testing.T) {
	root := t.TempDir()
	fs := NewFileService()

	path := writeFakeAudio(t, root, "Artist", "Album", "01 - Song One.mp3")

	meta := fs.ExtractAudioMetadata(path)
	require.NotNil(t, meta)
	assert.Equal(t, "Song One", meta.Title)
	assert.Equal(t, "Artist", meta.Artist)
	assert.Equal(t, "Album", meta.Album)
	assert.Equal(t, 1, meta.TrackNumber)
}

func TestExtractMetadataSpotdlNaming(t *testing.T) {
	root := t.TempDir()
	fs := NewFileService()

	path := writeFakeAudio(t, root, "Some Artist - Some Song.mp3")

	meta := fs.ExtractAudioMetadata(path)
	require.NotNil(t, meta)
	assert.Equal(t, "Some Song", meta.Title)
	assert.Equal(t, "Some Artist", meta.Artist)
}

func TestValidateFilePath(t *testing.T) {
	fs := NewFileService()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative path ok", "Artist/Album/song.mp3", false},
		{"traversal rejected", "../etc/passwd", true},
		{"embedded traversal rejected", "a/../../b.mp3", true},
		{"absolute rejected", "/etc/passwd", true},
		{"empty rejected", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateFilePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetContentType(t *testing.T) {
	fs := NewFileService()
	assert.Equal(t, "audio/mpeg", fs.GetContentType("a.mp3"))
	assert.Equal(t, "audio/flac", fs.GetContentType("a.FLAC"))
	assert.Equal(t, "application/octet-stream", fs.GetContentType("a.txt"))
}
