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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/database"
	"github.com/merchkit/catalog-admin/internal/router"
	"github.com/merchkit/catalog-admin/internal/services"
	"github.com/merchkit/catalog-admin/internal/store"
	"github.com/merchkit/catalog-admin/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// The write-behind journal database is optional; the catalog itself
	// lives in memory.
	var db *gorm.DB
	if cfg.DatabaseEnabled() {
		db, err = database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}
	} else {
		logrus.Info("Journal database not configured, running memory-only")
	}

	st := store.New()

	// Seed the collection from the remote source before serving
	sourceService := services.NewSourceService(cfg.Catalog)
	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), time.Duration(cfg.Catalog.SourceTimeout)*time.Second)
	sourceService.Hydrate(hydrateCtx, st)
	cancelHydrate()

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}

	var eventService *services.EventService
	if cfg.KafkaEnabled() {
		eventService = services.NewEventService(cfg.Kafka)
		defer eventService.Close()
	}

	notifier := services.NewNotificationService()
	catalogService := services.NewCatalogService(st)
	productService := services.NewProductService(st, storageService, notifier, eventService, db, cfg.Catalog.UploadFolder)
	authService := services.NewAuthService(cfg)

	r := router.Initialize(cfg, router.Dependencies{
		Store:          st,
		CatalogService: catalogService,
		ProductService: productService,
		AuthService:    authService,
		Notifier:       notifier,
		DB:             db,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting catalog admin server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
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
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}
