package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the namespace for all environment overrides (TIMESEER_SERVER_PORT, ...)
const EnvPrefix = "TIMESEER"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Forecast  ForecastConfig  `yaml:"forecast" envconfig:"FORECAST"`
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// SecurityConfig contains CORS and rate limiting configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths. Relative entries resolve against the executable directory.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	ExportsDir    string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
}

// ForecastConfig holds analysis defaults shared by every front end
type ForecastConfig struct {
	TrainSize      float64 `yaml:"train_size" envconfig:"TRAIN_SIZE"`
	Steps          int     `yaml:"steps" envconfig:"STEPS"`
	MaxSteps       int     `yaml:"max_steps" envconfig:"MAX_STEPS"`
	MinDataPoints  int     `yaml:"min_data_points" envconfig:"MIN_DATA_POINTS"`
	SeasonalPeriod int     `yaml:"seasonal_period" envconfig:"SEASONAL_PERIOD"`
	AutoMaxP       int     `yaml:"auto_max_p" envconfig:"AUTO_MAX_P"`
	AutoMaxD       int     `yaml:"auto_max_d" envconfig:"AUTO_MAX_D"`
	AutoMaxQ       int     `yaml:"auto_max_q" envconfig:"AUTO_MAX_Q"`
	Criterion      string  `yaml:"criterion" envconfig:"CRITERION"`
}

// SessionConfig controls dashboard session lifetime
type SessionConfig struct {
	CookieName      string        `yaml:"cookie_name" envconfig:"COOKIE_NAME"`
	TTL             time.Duration `yaml:"ttl" envconfig:"TTL"`
	JanitorSchedule string        `yaml:"janitor_schedule" envconfig:"JANITOR_SCHEDULE"`
	MaxSessions     int           `yaml:"max_sessions" envconfig:"MAX_SESSIONS"`
}

// TelemetryConfig controls OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing  bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics  bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceToStdout  bool   `yaml:"trace_to_stdout" envconfig:"TRACE_TO_STDOUT"`
	PrometheusPath string `yaml:"prometheus_path" envconfig:"PROMETHEUS_PATH"`
}

// Load builds the configuration in three layers: defaults, then the YAML file
// (if one is found), then TIMESEER_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths fills in the executable directory when it was not configured
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" {
		return nil
	}
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ValidatePaths ensures every directory the application writes to exists
func (c *Config) ValidatePaths() error {
	paths := c.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()
	return nil
}

// ResolvedPaths returns the configured paths made absolute
func (c *Config) ResolvedPaths() *Paths {
	return NewPaths(c.Paths)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Forecast.TrainSize <= 0 || c.Forecast.TrainSize >= 1 {
		return fmt.Errorf("forecast train size must be between 0 and 1, got %v", c.Forecast.TrainSize)
	}

	if c.Forecast.Steps <= 0 {
		return fmt.Errorf("forecast steps must be positive")
	}

	if c.Forecast.MaxSteps < c.Forecast.Steps {
		return fmt.Errorf("forecast max steps (%d) below default steps (%d)", c.Forecast.MaxSteps, c.Forecast.Steps)
	}

	switch strings.ToLower(c.Forecast.Criterion) {
	case "aic", "bic":
	default:
		return fmt.Errorf("unknown information criterion: %q", c.Forecast.Criterion)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	// Logs are always structured
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "stderr", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join("logs", "timeseer.log")
	}

	return nil
}

// getConfigFilePath returns the first config file found, or "" when none exists
func getConfigFilePath() string {
	locations := []string{os.Getenv(EnvPrefix + "_CONFIG"), "timeseer.yaml"}
	if paths, err := GetPaths(); err == nil {
		locations = append(locations,
			filepath.Join(paths.ExecutableDir, "timeseer.yaml"),
			filepath.Join(paths.ExecutableDir, "config", "timeseer.yaml"),
		)
	}

	for _, location := range locations {
		if location == "" {
			continue
		}
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  90 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: filepath.Join("logs", "timeseer.log"),
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			LogsDir:    DefaultLogsDir,
			ExportsDir: DefaultExportsDir,
		},
		Forecast: ForecastConfig{
			TrainSize:      DefaultTrainSize,
			Steps:          DefaultForecastSteps,
			MaxSteps:       120,
			MinDataPoints:  MinDataPoints,
			SeasonalPeriod: DefaultSeasonalPeriod,
			AutoMaxP:       5,
			AutoMaxD:       2,
			AutoMaxQ:       5,
			Criterion:      "aic",
		},
		Session: SessionConfig{
			CookieName:      "timeseer_session",
			TTL:             2 * time.Hour,
			JanitorSchedule: "@every 5m",
			MaxSessions:     500,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			EnableTracing:  true,
			EnableMetrics:  true,
			PrometheusPath: "/metrics",
		},
	}
}
