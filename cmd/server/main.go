package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/domain/models"
	"github.com/wallace-21/BirdNest/internal/repository/gormdb"
	"github.com/wallace-21/BirdNest/internal/scheduler"
	"github.com/wallace-21/BirdNest/internal/server/handlers"
	"github.com/wallace-21/BirdNest/internal/server/router"
	"github.com/wallace-21/BirdNest/internal/service/ai"
	"github.com/wallace-21/BirdNest/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Debug))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	db, err := gormdb.Open(cfg.Database.URL, cfg.Server.Debug)
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}

	if err := gormdb.Migrate(db, &models.Bird{}); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	birdRepo := gormdb.NewBirdRepository(db)

	// The agent is constructed lazily on first chat use; a missing
	// endpoint or key surfaces there as 503, not here.
	agentProvider := ai.NewProvider(cfg.Agent, baseLogger.Named("svc.ai"))

	birdHandler := handlers.NewBirdHandler(birdRepo, baseLogger.Named("handlers.birds"))
	chatHandler := handlers.NewChatHandler(agentProvider, baseLogger.Named("handlers.chat"))
	engine := router.New(cfg.Server.APIPrefix, birdHandler, chatHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Stats, birdRepo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("project", cfg.Server.ProjectName),
			zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
