package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/config"
	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/pkg/logger"
	"github.com/track-synthesizer/internal/repository/cache"
	"github.com/track-synthesizer/internal/repository/parquet"
	"github.com/track-synthesizer/internal/repository/postgres"
	redisRepo "github.com/track-synthesizer/internal/repository/redis"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/worker"
	"github.com/track-synthesizer/internal/worker/scenario"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New("track-synthesizer-worker", cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting scenario generation worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout))

	defaults, err := cfg.Synth()
	if err != nil {
		log.Fatal("Invalid generator configuration", zap.Error(err))
	}

	// 3. Connect to PostgreSQL (optional)
	var (
		scenarioRepo repository.ScenarioRepository
		effortRepo   repository.EffortRepository
	)
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		if err := db.MigrateUp(cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		scenarioRepo = postgres.NewScenarioRepository(db)
		effortRepo = postgres.NewEffortRepository(db)
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)

	var exporter repository.DatasetExporter
	if cfg.Export.Enabled {
		exporter = parquet.NewExporter(cfg.Export.Dir, log)
	}

	// 6. Initialize use cases
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

	// 7. Initialize workers
	generationWorker := scenario.NewGenerationWorker(
		streamRepo,
		scenarioUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(generationWorker)

	// 8. Start and wait for shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
