package handlers

import (
	"errors"
	"log"
	"net/http"

	"cadenza/config"
	"cadenza/services"
	"cadenza/types"
	"cadenza/websocket"

	"github.com/gin-gonic/gin"
)

// DownloadHandler handles download management endpoints
type DownloadHandler struct {
	supervisor services.Supervisor
	hub        websocket.Hub
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(sup services.Supervisor, hub websocket.Hub) *DownloadHandler {
	return &DownloadHandler{
		supervisor: sup,
		hub:        hub,
	}
}

// StartDownload starts a spotdl download for the posted URL. Only one
// download may run at a time; a second request gets 409.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req types.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Kind == "" {
		req.Kind = types.KindTrack
	}
	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type must be track, album or playlist",
		})
		return
	}
	if req.Threads <= 0 {
		req.Threads = config.DownloadThreads()
	}

	job, results, err := h.supervisor.Start(types.JobSpec{
		URL:     req.URL,
		Kind:    req.Kind,
		Threads: req.Threads,
		Dir:     config.DownloadLocation(),
	})
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "a download is already running",
			})
			return
		}
		log.Printf("Failed to start download: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to start download",
			"details": err.Error(),
		})
		return
	}

	// Drain the result in the background; job state is tracked by the
	// supervisor and progress flows through the WebSocket hub.
	go func() {
		res := <-results
		log.Printf("Job %s finished: %s", job.ID, res.Outcome)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Download started",
		"job":     job,
	})
}

// GetCurrentJob returns the active job, or the most recently finished
// one when nothing is running.
func (h *DownloadHandler) GetCurrentJob(c *gin.Context) {
	if job, ok := h.supervisor.CurrentJob(); ok {
		c.JSON(http.StatusOK, gin.H{"job": job, "active": true})
		return
	}
	if job, ok := h.supervisor.LastJob(); ok {
		c.JSON(http.StatusOK, gin.H{"job": job, "active": false})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no downloads yet"})
}

// CancelDownload cancels the active download
func (h *DownloadHandler) CancelDownload(c *gin.Context) {
	if err := h.supervisor.Cancel(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "no active download to cancel",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "download cancelled",
	})
}

// HandleWebSocketConnection upgrades the request and streams progress
// snapshots to the client.
func (h *DownloadHandler) HandleWebSocketConnection(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
