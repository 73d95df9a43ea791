package handlers

import (
	"net/http"
	"os/exec"
	"time"

	"cadenza/config"
	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "cadenza",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus reports the API status plus the external tools the download
// pipeline depends on.
func (h *HealthHandler) APIStatus(c *gin.Context) {
	spotdlPath := config.SpotdlPath()
	spotdlFound := false
	if _, err := exec.LookPath(spotdlPath); err == nil {
		spotdlFound = true
	}
	ffmpegFound := false
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		ffmpegFound = true
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Cadenza API is running",
		"download_location": config.DownloadLocation(),
		"spotdl_found":      spotdlFound,
		"spotdl_path":       spotdlPath,
		"ffmpeg_found":      ffmpegFound,
	})
}
