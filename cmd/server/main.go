// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natask/faibricator/internal/config"
	"github.com/natask/faibricator/internal/database"
	"github.com/natask/faibricator/internal/router"
	"github.com/natask/faibricator/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// The local store is the system of record; without it nothing works.
	localStore, err := store.Open(cfg.LocalStore.Path)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open local store")
	}
	defer localStore.Close()

	// The remote mirror is optional. If it is unreachable the service
	// still starts and serves from the local store.
	var remoteDB *gorm.DB
	if cfg.Database.Enabled() {
		remoteDB, err = database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Warn("Remote database unavailable, running on local store only")
			remoteDB = nil
		} else {
			defer database.Close(remoteDB)
			if err := database.RunMigrations(remoteDB); err != nil {
				logrus.WithError(err).Warn("Remote migrations failed, running on local store only")
				remoteDB = nil
			}
		}
	}

	var cache *redis.Client
	if cfg.Redis.Enabled() {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logrus.WithError(err).Warn("Redis unavailable, product list caching disabled")
			cache = nil
		}
	}

	// Initialize router
	r := router.Initialize(cfg, remoteDB, localStore, cache)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
