package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/effort"
	"github.com/track-synthesizer/internal/synth/path"
	"github.com/track-synthesizer/internal/synth/scenario"
	"github.com/track-synthesizer/internal/synth/segment"
	"github.com/track-synthesizer/internal/synth/terrain"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Generator GeneratorConfig
	Export    ExportConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SummaryTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int
	MaxRetries        int
}

// GeneratorConfig параметры движка по умолчанию (ключи SYNTH_*)
type GeneratorConfig struct {
	PointSpacingM    float64
	PositionJitterM  float64
	ElevationJitterM float64
	PauseProbability float64
	PauseMinS        float64
	PauseMaxS        float64

	SegmentMinLengthM float64
	SegmentMaxLengthM float64
	MinClimbGainM     float64

	Skill                  string
	SkillMean              float64
	SkillStdDev            float64
	SkillAlpha             float64
	TimeVariance           float64
	EffortPauseProbability float64
	PauseFractionMin       float64
	PauseFractionMax       float64

	Coverage         string
	CoverageFraction float64
	CoverageAlpha    float64

	TerrainPreset string
	Bounds        domain.BoundingBox
	DetectClimbs  bool
	MaxUsers      int
}

type ExportConfig struct {
	Enabled bool
	Dir     string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setGeneratorDefaults()

	// .env не обязателен: в контейнере все приходит из окружения
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	bounds, err := parseBounds(viper.GetString("SYNTH_BOUNDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNTH_BOUNDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			ReadTimeout:  viper.GetDuration("API_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("API_WRITE_TIMEOUT"),
			CORSOrigins:  viper.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         viper.GetBool("DB_ENABLED"),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			MigrationsPath:  viper.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SummaryTTL: time.Duration(viper.GetInt("SUMMARY_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Generator: GeneratorConfig{
			PointSpacingM:          viper.GetFloat64("SYNTH_POINT_SPACING_M"),
			PositionJitterM:        viper.GetFloat64("SYNTH_POSITION_JITTER_M"),
			ElevationJitterM:       viper.GetFloat64("SYNTH_ELEVATION_JITTER_M"),
			PauseProbability:       viper.GetFloat64("SYNTH_PAUSE_PROBABILITY"),
			PauseMinS:              viper.GetFloat64("SYNTH_PAUSE_MIN_S"),
			PauseMaxS:              viper.GetFloat64("SYNTH_PAUSE_MAX_S"),
			SegmentMinLengthM:      viper.GetFloat64("SYNTH_SEGMENT_MIN_LENGTH_M"),
			SegmentMaxLengthM:      viper.GetFloat64("SYNTH_SEGMENT_MAX_LENGTH_M"),
			MinClimbGainM:          viper.GetFloat64("SYNTH_MIN_CLIMB_GAIN_M"),
			Skill:                  viper.GetString("SYNTH_SKILL"),
			SkillMean:              viper.GetFloat64("SYNTH_SKILL_MEAN"),
			SkillStdDev:            viper.GetFloat64("SYNTH_SKILL_STD"),
			SkillAlpha:             viper.GetFloat64("SYNTH_SKILL_ALPHA"),
			TimeVariance:           viper.GetFloat64("SYNTH_TIME_VARIANCE"),
			EffortPauseProbability: viper.GetFloat64("SYNTH_EFFORT_PAUSE_PROBABILITY"),
			PauseFractionMin:       viper.GetFloat64("SYNTH_PAUSE_FRACTION_MIN"),
			PauseFractionMax:       viper.GetFloat64("SYNTH_PAUSE_FRACTION_MAX"),
			Coverage:               viper.GetString("SYNTH_COVERAGE"),
			CoverageFraction:       viper.GetFloat64("SYNTH_COVERAGE_FRACTION"),
			CoverageAlpha:          viper.GetFloat64("SYNTH_COVERAGE_ALPHA"),
			TerrainPreset:          viper.GetString("SYNTH_TERRAIN_PRESET"),
			Bounds:                 bounds,
			DetectClimbs:           viper.GetBool("SYNTH_DETECT_CLIMBS"),
			MaxUsers:               viper.GetInt("SYNTH_MAX_USERS"),
		},
		Export: ExportConfig{
			Enabled: viper.GetBool("EXPORT_ENABLED"),
			Dir:     viper.GetString("EXPORT_DIR"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Cache.SummaryTTL == 0 {
		cfg.Cache.SummaryTTL = 24 * time.Hour
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "scenario-generation-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 4
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "export"
	}

	return cfg, nil
}

// setGeneratorDefaults задает значения SYNTH_* по умолчанию.
// Нулевые вероятности допустимы, поэтому проверка "if == 0" здесь не подходит.
func setGeneratorDefaults() {
	p := path.DefaultConfig()
	s := segment.DefaultConfig()
	e := effort.DefaultConfig()
	d := scenario.DefaultConfig()

	viper.SetDefault("SYNTH_POINT_SPACING_M", p.PointSpacingM)
	viper.SetDefault("SYNTH_POSITION_JITTER_M", p.PositionJitterM)
	viper.SetDefault("SYNTH_ELEVATION_JITTER_M", p.ElevationJitterM)
	viper.SetDefault("SYNTH_PAUSE_PROBABILITY", p.PauseProbability)
	viper.SetDefault("SYNTH_PAUSE_MIN_S", p.PauseMinS)
	viper.SetDefault("SYNTH_PAUSE_MAX_S", p.PauseMaxS)
	viper.SetDefault("SYNTH_SEGMENT_MIN_LENGTH_M", s.MinLengthM)
	viper.SetDefault("SYNTH_SEGMENT_MAX_LENGTH_M", s.MaxLengthM)
	viper.SetDefault("SYNTH_MIN_CLIMB_GAIN_M", s.MinClimbGainM)
	viper.SetDefault("SYNTH_SKILL", effort.SkillUniform.String())
	viper.SetDefault("SYNTH_SKILL_MEAN", 1.0)
	viper.SetDefault("SYNTH_SKILL_STD", 0.15)
	viper.SetDefault("SYNTH_SKILL_ALPHA", 2.0)
	viper.SetDefault("SYNTH_TIME_VARIANCE", e.TimeVariance)
	viper.SetDefault("SYNTH_EFFORT_PAUSE_PROBABILITY", e.PauseProbability)
	viper.SetDefault("SYNTH_PAUSE_FRACTION_MIN", e.PauseFractionMin)
	viper.SetDefault("SYNTH_PAUSE_FRACTION_MAX", e.PauseFractionMax)
	viper.SetDefault("SYNTH_COVERAGE", effort.CoverageFull.String())
	viper.SetDefault("SYNTH_COVERAGE_FRACTION", 0.5)
	viper.SetDefault("SYNTH_COVERAGE_ALPHA", 1.0)
	viper.SetDefault("SYNTH_TERRAIN_PRESET", string(d.TerrainPreset))
	viper.SetDefault("SYNTH_BOUNDS", formatBounds(d.Bounds))
	viper.SetDefault("SYNTH_DETECT_CLIMBS", d.DetectClimbs)
	viper.SetDefault("SYNTH_MAX_USERS", 500)
}

// parseBounds разбирает "minLat,minLon,maxLat,maxLon"
func parseBounds(s string) (domain.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("expected 4 comma separated values, got %q", s)
	}

	values := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}

	b := domain.BoundingBox{MinLat: values[0], MinLon: values[1], MaxLat: values[2], MaxLon: values[3]}
	return b, b.Validate()
}

func formatBounds(b domain.BoundingBox) string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Synth собирает конфигурацию сценария по умолчанию из SYNTH_* параметров
func (c *Config) Synth() (scenario.Config, error) {
	g := c.Generator
	cfg := scenario.DefaultConfig()

	cfg.Bounds = g.Bounds
	cfg.TerrainPreset = terrain.Preset(g.TerrainPreset)
	cfg.DetectClimbs = g.DetectClimbs
	cfg.Path = path.Config{
		PointSpacingM:    g.PointSpacingM,
		PositionJitterM:  g.PositionJitterM,
		ElevationJitterM: g.ElevationJitterM,
		PauseProbability: g.PauseProbability,
		PauseMinS:        g.PauseMinS,
		PauseMaxS:        g.PauseMaxS,
	}
	cfg.Segment = segment.Config{
		MinLengthM:    g.SegmentMinLengthM,
		MaxLengthM:    g.SegmentMaxLengthM,
		MinClimbGainM: g.MinClimbGainM,
	}

	skill, err := effort.ParseSkill(g.Skill, g.SkillMean, g.SkillStdDev, g.SkillAlpha)
	if err != nil {
		return scenario.Config{}, fmt.Errorf("invalid SYNTH_SKILL: %w", err)
	}
	coverage, err := effort.ParseCoverage(g.Coverage, g.CoverageFraction, g.CoverageAlpha)
	if err != nil {
		return scenario.Config{}, fmt.Errorf("invalid SYNTH_COVERAGE: %w", err)
	}

	cfg.Coverage = coverage
	cfg.Effort = effort.Config{
		Skill:            skill,
		TimeVariance:     g.TimeVariance,
		PauseProbability: g.EffortPauseProbability,
		PauseFractionMin: g.PauseFractionMin,
		PauseFractionMax: g.PauseFractionMax,
	}

	if err := cfg.Validate(); err != nil {
		return scenario.Config{}, err
	}
	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
