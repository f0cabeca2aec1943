package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/api"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/audit"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/cache"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/config"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/middleware"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/seed"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/services"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/storage"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/users"
	"github.com/roadmaphq/roadmap-api/pkg/logger"
)

const startupTimeout = 10 * time.Second

func main() {
	logInstance, err := logger.Init(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENV"),
		WithSource:  !strings.EqualFold(os.Getenv("ENV"), "production"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	appLogger := logInstance.With("component", "roadmap-api")

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	appLogger.Info("configuration loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)
	fmt.Println(cfg.PrintConfig())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Document store
	store, err := storage.Connect(startupCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		appLogger.Error("mongo connection failed", "error", err)
		os.Exit(1)
	}
	if err := store.Users().EnsureIndexes(startupCtx); err != nil {
		appLogger.Error("user index creation failed", "error", err)
		os.Exit(1)
	}
	appLogger.Info("document store ready", "database", cfg.Mongo.Database)

	// Cache: Redis when configured, in-process otherwise. A Redis outage at
	// startup is fatal; runtime outages degrade reads to the store.
	var cacheBackend cache.Cache
	if cfg.Redis.Addr != "" {
		cacheBackend, err = cache.NewRedisCache(startupCtx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			UseTLS:   cfg.Redis.UseTLS,
		})
		if err != nil {
			appLogger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		appLogger.Info("redis cache ready", "addr", cfg.Redis.Addr)
	} else {
		cacheBackend = cache.NewMemoryCache()
		appLogger.Warn("REDIS_ADDR not set, using in-process cache")
	}

	// Repository and services
	repo := repository.NewRoadmapRepository(store.Roadmaps(), cacheBackend, cfg.Cache.TTL, logInstance.With("component", "roadmap-repository"))
	roadmapSvc := services.NewRoadmapService(repo)
	topicSvc := services.NewTopicService(repo)

	userManager, err := users.NewManager(store.Users(), []byte(cfg.Security.JWTSecret), cfg.Security.JWTExpiry)
	if err != nil {
		appLogger.Error("user manager init failed", "error", err)
		os.Exit(1)
	}

	auditLog := audit.NewLogger(cfg.Audit.LogPath)
	appLogger.Info("audit logger ready", "path", cfg.Audit.LogPath)

	if cfg.Seed.File != "" {
		created, err := seed.Load(startupCtx, cfg.Seed.File, roadmapSvc, logInstance.With("component", "seed"))
		if err != nil {
			appLogger.Error("seeding failed", "file", cfg.Seed.File, "error", err)
			os.Exit(1)
		}
		appLogger.Info("seeding complete", "file", cfg.Seed.File, "created", created)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	startTime := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"env":            cfg.Server.Env,
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.RegisterRoutes(r,
		api.NewRoadmapHandler(roadmapSvc, auditLog),
		api.NewTopicHandler(topicSvc, auditLog),
		api.NewUserHandler(userManager),
		userManager,
	)

	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: r,
	}

	go func() {
		appLogger.Info("server starting", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
	}
	if err := cacheBackend.Close(); err != nil {
		appLogger.Warn("cache close failed", "error", err)
	}
	if err := store.Close(ctx); err != nil {
		appLogger.Warn("mongo disconnect failed", "error", err)
	}
	appLogger.Info("server shutdown complete")
}
