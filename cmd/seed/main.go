package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/config"
	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/pkg/logger"
	"github.com/track-synthesizer/internal/repository/parquet"
	"github.com/track-synthesizer/internal/repository/postgres"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/usecase/dto"
)

func main() {
	seed := flag.Uint("seed", 42, "scenario seed")
	users := flag.Int("users", 10, "number of users")
	activitiesPerUser := flag.Float64("activities-per-user", 3, "mean activities per user")
	independent := flag.Int("independent-segments", 2, "number of independent segments")
	climbs := flag.Bool("climbs", true, "detect categorized climbs on the reference track")
	pattern := flag.String("pattern", "", "track pattern: random_walk, out_and_back, loop")
	persist := flag.Bool("persist", false, "save scenario to PostgreSQL")
	exportDir := flag.String("export", "", "write Parquet tables to this directory")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load config: %v", err)
	}

	log, err := logger.New("track-synthesizer-seed", cfg.Log.Level)
	if err != nil {
		fail("Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	defaults, err := cfg.Synth()
	if err != nil {
		log.Fatal("Invalid generator configuration", zap.Error(err))
	}

	var (
		scenarioRepo repository.ScenarioRepository
		effortRepo   repository.EffortRepository
		exporter     repository.DatasetExporter
	)
	if *persist {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer db.Close()

		if err := db.MigrateUp(cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		scenarioRepo = postgres.NewScenarioRepository(db)
		effortRepo = postgres.NewEffortRepository(db)
	}
	if *exportDir != "" {
		exporter = parquet.NewExporter(*exportDir, log)
	}

	// без кеша: CLI всегда генерирует заново
	uc := usecase.NewScenarioUseCase(
		defaults,
		usecase.ScenarioOptions{MaxUsers: cfg.Generator.MaxUsers},
		scenarioRepo,
		effortRepo,
		nil,
		exporter,
		log,
	)

	req := dto.GenerateScenarioRequest{
		Seed:                uint32(*seed),
		Pattern:             *pattern,
		IndependentSegments: *independent,
		DetectClimbs:        climbs,
		Users:               users,
		ActivitiesPerUser:   activitiesPerUser,
		Persist:             *persist,
		Export:              exporter != nil,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	resp, err := uc.Generate(ctx, req)
	if err != nil {
		log.Fatal("Scenario generation failed", zap.Error(err))
	}

	log.Info("Scenario generated",
		zap.String("key", resp.Summary.Key),
		zap.Int("segments", resp.Summary.Segments),
		zap.Int("efforts", resp.Summary.Efforts),
		zap.Bool("persisted", resp.Persisted),
		zap.Strings("files", resp.Files),
		zap.Duration("took", time.Since(start)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatal("Failed to write result", zap.Error(err))
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
