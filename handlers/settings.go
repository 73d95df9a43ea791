package handlers

import (
	"fmt"
	"net/http"
	"os"

	"cadenza/config"
	"github.com/gin-gonic/gin"
)

// maxThreads caps the spotdl thread count a user may persist.
const maxThreads = 16

// SettingsHandler serves the persisted user settings: download
// location and default spotdl thread count.
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// GetSettings returns the saved settings, with defaults filled in when
// no settings file exists yet.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := config.LoadSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "could not read settings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings validates and persists new settings. The download
// location must be a writable directory; it is created if missing.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings config.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid settings body",
			"details": err.Error(),
		})
		return
	}

	if settings.Threads < 0 || settings.Threads > maxThreads {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("threads must be between 0 and %d", maxThreads),
		})
		return
	}

	if err := ensureWritableDir(settings.DownloadLocation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "download location is not a writable directory",
			"details": err.Error(),
		})
		return
	}

	if err := config.SaveSettings(&settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "could not save settings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ensureWritableDir creates dir if missing and write-tests it with a
// throwaway temp file, so a bad location is rejected at save time
// instead of failing the next download.
func ensureWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("empty path")
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".cadenza-*")
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(f.Name())
}
