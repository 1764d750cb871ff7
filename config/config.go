package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          int    `yaml:"port"`
	DataDir       string `yaml:"dataDir"`
	InputDir      string `yaml:"inputDir"`
	OutputDir     string `yaml:"outputDir"`
	PublicBaseURL string `yaml:"publicBaseUrl"`
	LogLevel      string `yaml:"logLevel"`

	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Encode    EncodeConfig    `yaml:"encode"`
	Status    StatusConfig    `yaml:"status"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// JobStore is memory, sqlite or redis.
	JobStore        string `yaml:"jobStore"`
	Workers         int    `yaml:"workers"`
	WatchInput      bool   `yaml:"watchInput"`
	MaxUploadSizeMB int    `yaml:"maxUploadSizeMB"`
}

type DispatchConfig struct {
	Strategy      string `yaml:"strategy"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	Stream        string `yaml:"stream"`
	Group         string `yaml:"group"`
	ProcessURL    string `yaml:"processUrl"`
	// ProcessToken is sent by the http strategy; ProcessTokenHash (bcrypt)
	// guards POST /process on the worker side.
	ProcessToken     string `yaml:"processToken"`
	ProcessTokenHash string `yaml:"processTokenHash"`
}

type EncodeConfig struct {
	Ladder                  string        `yaml:"ladder"`
	Concurrency             int           `yaml:"concurrency"`
	CancelSiblingsOnFailure bool          `yaml:"cancelSiblingsOnFailure"`
	EmptyLadderPolicy       string        `yaml:"emptyLadderPolicy"`
	CleanupFailedRenditions bool          `yaml:"cleanupFailedRenditions"`
	StaleJobAfter           time.Duration `yaml:"staleJobAfter"`
}

type StatusConfig struct {
	BatchMaxItems   int           `yaml:"batchMaxItems"`
	BatchFanout     int           `yaml:"batchFanout"`
	ChecksPerSecond float64       `yaml:"checksPerSecond"`
	CacheTTL        time.Duration `yaml:"cacheTTL"`
	PollInterval    time.Duration `yaml:"pollInterval"`
	MaxPollAttempts int           `yaml:"maxPollAttempts"`
	// RequestsPerMinute limits batch status and upload requests per client
	// IP; zero disables the limit.
	RequestsPerMinute int `yaml:"requestsPerMinute"`
}

type TelemetryConfig struct {
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

func defaults() *Config {
	return &Config{
		Port:            7890,
		DataDir:         "/data",
		InputDir:        "/data/input",
		OutputDir:       "/data/output",
		PublicBaseURL:   "http://localhost:7890",
		JobStore:        "memory",
		Workers:         1,
		MaxUploadSizeMB: 2048,
		Dispatch: DispatchConfig{
			Strategy:  string(domain.StrategyHTTP),
			RedisAddr: "localhost:6379",
			Stream:    "video-transcode-requests",
			Group:     "transcoder",
		},
		Encode: EncodeConfig{
			Ladder:                  "standard",
			EmptyLadderPolicy:       string(domain.EmptyLadderFail),
			CleanupFailedRenditions: true,
			StaleJobAfter:           time.Hour,
		},
		Status: StatusConfig{
			BatchMaxItems:     20,
			BatchFanout:       8,
			CacheTTL:          7 * time.Minute,
			PollInterval:      5 * time.Second,
			MaxPollAttempts:   60,
			RequestsPerMinute: 120,
		},
		Telemetry: TelemetryConfig{SamplingRate: 1},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Dispatch.ProcessURL == "" {
		cfg.Dispatch.ProcessURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = f
		}
	}

	setInt("PORT", &cfg.Port)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.InputDir = getEnv("INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JobStore = getEnv("JOB_STORE", cfg.JobStore)
	setInt("WORKERS", &cfg.Workers)
	setBool("WATCH_INPUT", &cfg.WatchInput)
	setInt("MAX_UPLOAD_SIZE_MB", &cfg.MaxUploadSizeMB)

	cfg.Dispatch.Strategy = getEnv("DISPATCH_STRATEGY", cfg.Dispatch.Strategy)
	cfg.Dispatch.RedisAddr = getEnv("REDIS_ADDR", cfg.Dispatch.RedisAddr)
	cfg.Dispatch.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Dispatch.RedisPassword)
	setInt("REDIS_DB", &cfg.Dispatch.RedisDB)
	cfg.Dispatch.Stream = getEnv("DISPATCH_STREAM", cfg.Dispatch.Stream)
	cfg.Dispatch.Group = getEnv("DISPATCH_GROUP", cfg.Dispatch.Group)
	cfg.Dispatch.ProcessURL = getEnv("PROCESS_URL", cfg.Dispatch.ProcessURL)
	cfg.Dispatch.ProcessToken = getEnv("PROCESS_TOKEN", cfg.Dispatch.ProcessToken)
	cfg.Dispatch.ProcessTokenHash = getEnv("PROCESS_TOKEN_HASH", cfg.Dispatch.ProcessTokenHash)

	cfg.Encode.Ladder = getEnv("LADDER", cfg.Encode.Ladder)
	setInt("ENCODE_CONCURRENCY", &cfg.Encode.Concurrency)
	setBool("CANCEL_SIBLINGS_ON_FAILURE", &cfg.Encode.CancelSiblingsOnFailure)
	cfg.Encode.EmptyLadderPolicy = getEnv("EMPTY_LADDER_POLICY", cfg.Encode.EmptyLadderPolicy)
	setBool("CLEANUP_FAILED_RENDITIONS", &cfg.Encode.CleanupFailedRenditions)
	setDuration("STALE_JOB_AFTER", &cfg.Encode.StaleJobAfter)

	setInt("BATCH_MAX_ITEMS", &cfg.Status.BatchMaxItems)
	setInt("BATCH_FANOUT", &cfg.Status.BatchFanout)
	setFloat("STATUS_CHECKS_PER_SECOND", &cfg.Status.ChecksPerSecond)
	setInt("RATE_LIMIT_PER_MINUTE", &cfg.Status.RequestsPerMinute)
	setDuration("STATUS_CACHE_TTL", &cfg.Status.CacheTTL)
	setDuration("POLL_INTERVAL", &cfg.Status.PollInterval)
	setInt("MAX_POLL_ATTEMPTS", &cfg.Status.MaxPollAttempts)

	cfg.Telemetry.Exporter = getEnv("OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = getEnv("OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
	setFloat("OTEL_SAMPLING_RATE", &cfg.Telemetry.SamplingRate)

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if _, err := domain.ParseStrategy(c.Dispatch.Strategy); err != nil {
		return err
	}
	if _, err := domain.LadderByName(c.Encode.Ladder); err != nil {
		return err
	}
	if _, err := domain.ParseEmptyLadderPolicy(c.Encode.EmptyLadderPolicy); err != nil {
		return err
	}
	switch c.JobStore {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown JOB_STORE %q (supported: memory, sqlite, redis)", c.JobStore)
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1")
	}
	if c.Status.BatchMaxItems < 1 {
		return fmt.Errorf("BATCH_MAX_ITEMS must be at least 1")
	}
	if c.Status.PollInterval <= 0 || c.Status.MaxPollAttempts < 1 {
		return fmt.Errorf("poll interval and attempts must be positive")
	}
	return nil
}

func (c *Config) Strategy() domain.Strategy {
	s, _ := domain.ParseStrategy(c.Dispatch.Strategy)
	return s
}

func (c *Config) Ladder() domain.Ladder {
	l, _ := domain.LadderByName(c.Encode.Ladder)
	return l
}

func (c *Config) EmptyLadderPolicy() domain.EmptyLadderPolicy {
	p, _ := domain.ParseEmptyLadderPolicy(c.Encode.EmptyLadderPolicy)
	return p
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
