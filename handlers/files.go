package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cadenza/config"
	"cadenza/services"

	"github.com/gin-gonic/gin"
)

// FileHandler handles library endpoints over the download directory
type FileHandler struct {
	fileService services.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fs services.FileService) *FileHandler {
	return &FileHandler{
		fileService: fs,
	}
}

// ListFiles returns every downloaded audio file with its metadata
func (h *FileHandler) ListFiles(c *gin.Context) {
	downloadLocation := config.DownloadLocation()

	audioFiles, err := h.fileService.ScanAudioFiles(downloadLocation)
	if err != nil {
		log.Printf("Error scanning audio files: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to scan files",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": audioFiles,
		"count": len(audioFiles),
	})
}

// StreamFile streams an audio file with support for range requests
func (h *FileHandler) StreamFile(c *gin.Context) {
	requestedPath := strings.TrimPrefix(c.Param("filepath"), "/")

	if err := h.fileService.ValidateFilePath(requestedPath); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "path security violation",
			"details": err.Error(),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(requestedPath))
	if ext != ".mp3" && ext != ".flac" {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "file extension not allowed",
			"details": "only .mp3 and .flac files can be streamed",
		})
		return
	}

	downloadLocation := config.DownloadLocation()
	fullPath := filepath.Join(downloadLocation, requestedPath)

	// The resolved path must stay inside the download location.
	absDownloadPath, err := filepath.Abs(downloadLocation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server configuration error"})
		return
	}
	absRequestPath, err := filepath.Abs(fullPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file path"})
		return
	}
	if !strings.HasPrefix(absRequestPath, absDownloadPath+string(os.PathSeparator)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "path outside download location"})
		return
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		}
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stat file"})
		return
	}

	contentType := h.fileService.GetContentType(fullPath)
	fileSize := info.Size()

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		c.Header("Content-Type", contentType)
		c.Header("Content-Length", strconv.FormatInt(fileSize, 10))
		c.Header("Accept-Ranges", "bytes")
		c.Status(http.StatusOK)
		io.Copy(c.Writer, file)
		return
	}

	start, end, err := parseRange(rangeHeader, fileSize)
	if err != nil {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seek file"})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(end-start+1, 10))
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	c.Header("Accept-Ranges", "bytes")
	c.Status(http.StatusPartialContent)
	io.CopyN(c.Writer, file, end-start+1)
}

// parseRange parses a single "bytes=start-end" range header
func parseRange(rangeHeader string, fileSize int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(rangeHeader, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("unsupported range unit")
	}
	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, fmt.Errorf("malformed range")
	}

	if startStr == "" {
		// Suffix range: last N bytes
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, fmt.Errorf("malformed suffix range")
		}
		if n > fileSize {
			n = fileSize
		}
		return fileSize - n, fileSize - 1, nil
	}

	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 || start >= fileSize {
		return 0, 0, fmt.Errorf("invalid range start")
	}

	end = fileSize - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return 0, 0, fmt.Errorf("invalid range end")
		}
		if end >= fileSize {
			end = fileSize - 1
		}
	}
	return start, end, nil
}
