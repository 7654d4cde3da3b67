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
	"go.uber.org/zap"

	"github.com/tuiter/tuiter/internal/api"
	"github.com/tuiter/tuiter/internal/cache"
	"github.com/tuiter/tuiter/internal/db"
	"github.com/tuiter/tuiter/internal/feed"
	"github.com/tuiter/tuiter/internal/graph"
	"github.com/tuiter/tuiter/pkg/config"
	"github.com/tuiter/tuiter/pkg/logging"
	"github.com/tuiter/tuiter/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Tuiter API Server")

	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Stores over the shared repository
	repo := db.NewRepository(database.DB)
	userStore := db.NewUserStore(repo)
	followStore := db.NewFollowStore(repo)
	tuitStore := db.NewTuitStore(repo)
	reactionStore := db.NewReactionStore(repo)

	// Services: the graph service is the only edge/counter mutator,
	// the annotator and aggregator are read-only composition.
	graphService := graph.NewService(followStore, userStore, redisCache, cfg.Graph.MaxConcurrency)
	annotator := feed.NewAnnotator(reactionStore, userStore, graphService, cfg.Feed.MaxConcurrency)
	aggregator := feed.NewAggregator(tuitStore, userStore, graphService, annotator)

	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(database, redisCache, graphService, aggregator, tuitStore, userStore, cfg.Server.RequestTimeout)
	router.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
