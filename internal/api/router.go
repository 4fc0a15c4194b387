package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/api/handlers"
	"github.com/narratif/studio/internal/api/middleware"
	"github.com/narratif/studio/internal/api/ws"
	"github.com/narratif/studio/internal/config"
	"github.com/narratif/studio/internal/orchestrator"
)

func NewRouter(orch *orchestrator.Orchestrator, hub *ws.Hub, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CorsOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Live project updates
	router.GET("/ws", hub.Serve)

	// API routes
	api := router.Group("/api")
	{
		// Settings endpoints
		settingsHandler := handlers.NewSettingsHandler(orch, logger)
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Put)

		// Standalone idea generation
		pipelineHandler := handlers.NewPipelineHandler(orch, logger)
		api.POST("/ideas/viral", pipelineHandler.ViralIdeas)

		// Project endpoints
		projects := api.Group("/projects")
		{
			projectHandler := handlers.NewProjectHandler(orch, logger)
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/save", projectHandler.Save)
			projects.PUT("/:id/name", projectHandler.Rename)

			// Pipeline transitions
			projects.POST("/:id/idea", pipelineHandler.SubmitIdea)
			projects.POST("/:id/script", pipelineHandler.SubmitScript)
			projects.POST("/:id/strategy/confirm", pipelineHandler.ConfirmStrategy)
			projects.POST("/:id/strategy/back", pipelineHandler.BackToStrategy)
			projects.POST("/:id/script/continue", pipelineHandler.ContinueScript)
			projects.POST("/:id/script/tts", pipelineHandler.GenerateTTS)
			projects.POST("/:id/script/finalize", pipelineHandler.FinalizeScript)
			projects.PUT("/:id/script", pipelineHandler.UpdateScript)
			projects.PUT("/:id/tts", pipelineHandler.UpdateTTSScript)
			projects.POST("/:id/characters/confirm", pipelineHandler.ConfirmCharacters)
			projects.PUT("/:id/characters/:characterId", pipelineHandler.UpdateCharacter)
			projects.POST("/:id/characters/:characterId/image", pipelineHandler.GenerateCharacterImage)
			projects.POST("/:id/audio", pipelineHandler.ProceedToAudio)
			projects.POST("/:id/audio/regenerate", pipelineHandler.RegenerateAudio)
			projects.POST("/:id/video", pipelineHandler.ProceedToVideo)
			projects.POST("/:id/metadata", pipelineHandler.ProceedToMetadata)
			projects.POST("/:id/metadata/confirm", pipelineHandler.ConfirmMetadata)

			// Shot endpoints
			shots := projects.Group("/:id/scenes/:sceneName/shots/:shotId")
			{
				shots.PUT("", pipelineHandler.UpdateShotPrompt)
				shots.POST("/image", pipelineHandler.GenerateShotImage)
				shots.POST("/image/upload", pipelineHandler.UploadShotImage)
				shots.POST("/video", pipelineHandler.GenerateShotVideo)
			}

			// Thumbnail endpoints
			projects.POST("/:id/thumbnails/:thumbnailId/image", pipelineHandler.GenerateThumbnailImage)

			// Export endpoints
			exportHandler := handlers.NewExportHandler(orch, logger)
			projects.GET("/:id/export/srt", exportHandler.SRT)
			projects.GET("/:id/export/prompts", exportHandler.Prompts)
		}
	}

	return router
}
