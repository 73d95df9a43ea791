package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cadenza/types"
	"github.com/dhowden/tag"
)

// FileService scans and validates downloaded audio files
type FileService interface {
	ScanAudioFiles(rootPath string) ([]types.AudioFile, error)
	ExtractAudioMetadata(filePath string) *types.AudioMetadata
	ValidateFilePath(path string) error
	GetContentType(filePath string) string
}

type fileService struct{}

// NewFileService creates a new file service
func NewFileService() FileService {
	return &fileService{}
}

// ScanAudioFiles recursively scans the download directory for audio
// files spotdl has produced (MP3 primarily, FLAC when configured).
func (fs *fileService) ScanAudioFiles(rootPath string) ([]types.AudioFile, error) {
	var files []types.AudioFile

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Error accessing path %s: %v", path, err)
			return nil // continue walking, don't fail the entire scan
		}

		ext := strings.ToLower(filepath.Ext(path))
		if info.IsDir() || (ext != ".mp3" && ext != ".flac") {
			return nil
		}

		relativePath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relativePath = path
		}

		files = append(files, types.AudioFile{
			Filename: info.Name(),
			Path:     relativePath,
			Size:     info.Size(),
			Format:   strings.TrimPrefix(ext, "."),
			Metadata: fs.ExtractAudioMetadata(path),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

// GetContentType returns the appropriate MIME type for an audio file
func (fs *fileService) GetContentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

// ExtractAudioMetadata extracts metadata from an audio file with a
// filename-based fallback when the tags are missing or unreadable.
func (fs *fileService) ExtractAudioMetadata(filePath string) *types.AudioMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		log.Printf("Warning: Could not open audio file %s: %v", filePath, err)
		return fs.extractMetadataFromPath(filePath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		log.Printf("Warning: Could not parse audio metadata from %s: %v", filePath, err)
		return fs.extractMetadataFromPath(filePath)
	}

	metadata := &types.AudioMetadata{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
	}
	track, _ := meta.Track()
	metadata.TrackNumber = track

	// spotdl names files "Artist - Title.mp3"; fill tag gaps from that.
	if metadata.Title == "" || metadata.Artist == "" || metadata.Album == "" {
		fallback := fs.extractMetadataFromPath(filePath)
		if metadata.Title == "" {
			metadata.Title = fallback.Title
		}
		if metadata.Artist == "" {
			metadata.Artist = fallback.Artist
		}
		if metadata.Album == "" {
			metadata.Album = fallback.Album
		}
	}

	return metadata
}

var trackPrefixRe = regexp.MustCompile(`^(\d+)[\.\-\s]+(.+)`)

// extractMetadataFromPath derives metadata from the file's name and
// location as a fallback.
func (fs *fileService) extractMetadataFromPath(filePath string) *types.AudioMetadata {
	metadata := &types.AudioMetadata{}

	parts := strings.Split(filepath.ToSlash(filePath), "/")
	filename := filepath.Base(filePath)
	title := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Track number prefixes like "01 - ", "1. "
	if matches := trackPrefixRe.FindStringSubmatch(title); len(matches) > 2 {
		title = matches[2]
		if trackNum, err := strconv.Atoi(matches[1]); err == nil {
			metadata.TrackNumber = trackNum
		}
	}

	// spotdl's flat "Artist - Title" naming, otherwise the
	// Artist/Album/Track directory layout
	if artist, rest, found := strings.Cut(title, " - "); found {
		metadata.Artist = artist
		title = rest
	} else if len(parts) >= 3 {
		metadata.Artist = parts[len(parts)-3]
	}
	if len(parts) >= 2 {
		metadata.Album = parts[len(parts)-2]
	}

	metadata.Title = title
	return metadata
}

// ValidateFilePath checks for path traversal attempts and other issues
func (fs *fileService) ValidateFilePath(path string) error {
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("absolute paths not allowed")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path not allowed")
	}
	return nil
}
