package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"onway_routes/internal/config"
	"onway_routes/internal/controllers"
	"onway_routes/internal/logger"
	"onway_routes/internal/middleware"
	"onway_routes/internal/repository"
	"onway_routes/internal/routes"
	"onway_routes/internal/services"
	"onway_routes/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(cfg.Log)
	gin.SetMode(cfg.Server.GinMode)
	middleware.SetSecret(cfg.Auth.JWTSecret)

	// Connect to the database
	db, err := config.InitDB(cfg.Database, logger.GormLogger())
	if err != nil {
		logrus.WithError(err).Fatal("Database initialization failed")
	}
	logrus.WithField("driver", cfg.Database.Driver).Info("Database connected and migrated")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewGCS(ctx, cfg.Storage)
	if err != nil {
		logrus.WithError(err).Fatal("Object storage initialization failed")
	}

	repos := repository.New(db)
	routeService := services.NewRouteService(repos, store, cfg.Storage.DeleteConcurrency)
	uploadService := services.NewUploadService(repos.Keys, store)

	// Setup Gin router
	r := routes.SetupRouter(cfg.Server, routes.Handlers{
		Routes: controllers.NewRouteController(routeService),
		CDN:    controllers.NewCDNController(uploadService),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("Graceful shutdown failed")
		}
	}()

	log.Printf("🚀 Server running at :%s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("HTTP server stopped")
	}
}
