package cmd

import (
	"log"
	"os"

	"cadenza/config"
	"cadenza/handlers"
	"cadenza/middleware"
	"cadenza/services"
	"cadenza/websocket"

	"github.com/gin-gonic/gin"
)

// StartWebServer starts the web server
func StartWebServer(port string) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	supervisor := services.NewSupervisor(config.SpotdlPath(), hub)
	fileService := services.NewFileService()

	// Initialize handlers
	downloadHandler := handlers.NewDownloadHandler(supervisor, hub)
	fileHandler := handlers.NewFileHandler(fileService)
	healthHandler := handlers.NewHealthHandler()
	settingsHandler := handlers.NewSettingsHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging())
	r.Use(middleware.CORS())

	setupRoutes(r, downloadHandler, fileHandler, healthHandler, settingsHandler)

	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		port = serverPort
	}

	log.Printf("Cadenza server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, downloadHandler *handlers.DownloadHandler, fileHandler *handlers.FileHandler, healthHandler *handlers.HealthHandler, settingsHandler *handlers.SettingsHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Download management: one active job at a time
		downloadsGroup := apiGroup.Group("/downloads")
		{
			downloadsGroup.POST("", downloadHandler.StartDownload)
			downloadsGroup.GET("/current", downloadHandler.GetCurrentJob)
			downloadsGroup.DELETE("/current", downloadHandler.CancelDownload)
		}

		// WebSocket endpoint for real-time progress
		apiGroup.GET("/ws/progress", downloadHandler.HandleWebSocketConnection)

		// Downloaded library
		apiGroup.GET("/library", fileHandler.ListFiles)
		apiGroup.GET("/library/stream/*filepath", fileHandler.StreamFile)

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}
