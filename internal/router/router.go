// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natask/faibricator/internal/config"
	"github.com/natask/faibricator/internal/handlers"
	"github.com/natask/faibricator/internal/middleware"
	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/store"
)

func Initialize(cfg *config.Config, remoteDB *gorm.DB, localStore *store.LocalStore, cache *redis.Client) *gin.Engine {
	// Initialize services
	var remote services.ProductRepository
	if remoteDB != nil {
		remote = services.NewRemoteRepository(remoteDB)
	}
	local := services.NewLocalRepository(localStore)
	seeder := services.NewSeeder(localStore)

	productService := services.NewProductService(
		remote,
		local,
		seeder,
		cache,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		time.Duration(cfg.Remote.TimeoutSeconds)*time.Second,
	)

	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable, images will be embedded inline")
		storageService = nil
	}

	snapshots := store.NewSnapshotStore(cfg.Snapshots.Path, cfg.Snapshots.QuotaBytes)
	imaging := services.NewImagingService()
	studioService := services.NewStudioService(snapshots, imaging, productService, storageService)

	aiService := services.NewAIService(cfg.AI)
	speechService := services.NewSpeechService(cfg.Speech)
	videoService := services.NewVideoService(cfg.Video)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	studioHandler := handlers.NewStudioHandler(studioService)
	aiHandler := handlers.NewAIHandler(aiService)
	speechHandler := handlers.NewSpeechHandler(speechService)
	videoHandler := handlers.NewVideoHandler(videoService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("/:id/vote", productHandler.Vote)
			products.POST("/reseed", productHandler.Reseed)
		}

		users := v1.Group("/users")
		{
			users.GET("/:id/votes", productHandler.GetUserVotes)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", studioHandler.GetProjects)
			projects.PUT("/:id", studioHandler.SaveProject)
			projects.DELETE("/:id", studioHandler.DeleteProject)
			projects.POST("/:id/publish", studioHandler.PublishProject)
		}

		ai := v1.Group("/ai")
		ai.Use(middleware.AIRateLimit())
		{
			ai.POST("/describe", aiHandler.Describe)
			ai.POST("/edit", aiHandler.EditImage)
			ai.POST("/sketch", aiHandler.FinalSketch)
			ai.POST("/tech-pack", aiHandler.TechPack)
			ai.POST("/suppliers", aiHandler.FindSuppliers)
		}

		speech := v1.Group("/speech")
		speech.Use(middleware.MediaRateLimit())
		{
			speech.POST("/transcribe", speechHandler.Transcribe)
		}

		video := v1.Group("/video")
		video.Use(middleware.MediaRateLimit())
		{
			video.POST("/generate", videoHandler.Generate)
		}
	}

	// Locally stored uploads are served directly in development.
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.AWS.LocalUploadDir)
	}

	return r
}
