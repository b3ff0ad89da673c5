package main

// @title Track Synthesizer API
// @version 1.0.0
// @description Детерминированная генерация синтетических GPS треков, сегментов и попыток прохождения сегментов.
// @description
// @description Основные возможности:
// @description - Генерация сценария (пользователи, активности, сегменты, попытки) по seed
// @description - Предпросмотр одного трека с рельефом и временными метками
// @description - Поиск категорийных подъемов в произвольном треке
// @description - Таблица лучших результатов на сегменте

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/track-synthesizer/docs"
	"github.com/track-synthesizer/internal/config"
	httpDelivery "github.com/track-synthesizer/internal/delivery/http"
	"github.com/track-synthesizer/internal/delivery/http/handler"
	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/pkg/logger"
	"github.com/track-synthesizer/internal/repository/cache"
	"github.com/track-synthesizer/internal/repository/parquet"
	"github.com/track-synthesizer/internal/repository/postgres"
	"github.com/track-synthesizer/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New("track-synthesizer-api", cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Track Synthesizer API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("database_enabled", cfg.Database.Enabled),
		zap.Bool("export_enabled", cfg.Export.Enabled),
	)

	defaults, err := cfg.Synth()
	if err != nil {
		log.Fatal("Invalid generator configuration", zap.Error(err))
	}

	checks := map[string]handler.HealthChecker{}

	// 3. Connect to PostgreSQL (optional)
	var (
		scenarioRepo repository.ScenarioRepository
		effortRepo   repository.EffortRepository
		db           *postgres.DB
	)
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		if err := db.MigrateUp(cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		scenarioRepo = postgres.NewScenarioRepository(db)
		effortRepo = postgres.NewEffortRepository(db)
		checks["postgres"] = db
		log.Info("PostgreSQL connected")
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheRepo := cache.NewCacheRepository(redisClient)
	checks["redis"] = redisClient
	log.Info("Redis connected")

	// 5. Dataset export (optional)
	var exporter repository.DatasetExporter
	if cfg.Export.Enabled {
		exporter = parquet.NewExporter(cfg.Export.Dir, log)
		log.Info("Parquet export enabled", zap.String("dir", cfg.Export.Dir))
	}

	// 6. Initialize Use Cases
	scenarioUC := usecase.NewScenarioUseCase(
		defaults,
		usecase.ScenarioOptions{
			MaxUsers: cfg.Generator.MaxUsers,
			CacheTTL: cfg.Cache.SummaryTTL,
		},
		scenarioRepo,
		effortRepo,
		cacheRepo,
		exporter,
		log,
	)
	trackUC := usecase.NewTrackUseCase(defaults, log)

	// 7. Initialize HTTP Handlers
	healthHandler := handler.NewHealthHandler(checks, log)
	scenarioHandler := handler.NewScenarioHandler(scenarioUC, log)
	trackHandler := handler.NewTrackHandler(trackUC, log)
	segmentHandler := handler.NewSegmentHandler(scenarioUC, trackUC, log)

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		healthHandler,
		scenarioHandler,
		trackHandler,
		segmentHandler,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
