package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes variables for the duration of the test. envconfig also reads
// the bare tag name (PORT, HOST, TTL, ...) as a fallback, so those are cleared too.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func isolateEnv(t *testing.T) {
	t.Helper()
	unsetEnv(t, "PORT", "HOST", "TTL", "LEVEL", "OUTPUT", "FORMAT", "STEPS", EnvPrefix+"_CONFIG")
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5000, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 0.8, cfg.Forecast.TrainSize)
				assert.Equal(t, 12, cfg.Forecast.Steps)
				assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
				assert.NotEmpty(t, cfg.Paths.ExecutableDir)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"TIMESEER_SERVER_PORT":              "9090",
				"TIMESEER_SERVER_READ_TIMEOUT":      "30s",
				"TIMESEER_SECURITY_ALLOWED_ORIGINS": "http://a.example,https://b.example",
				"TIMESEER_LOGGING_LEVEL":            "debug",
				"TIMESEER_LOGGING_FORMAT":           "text",
				"TIMESEER_FORECAST_TRAIN_SIZE":      "0.85",
				"TIMESEER_SESSION_TTL":              "30m",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format, "format is forced to json")
				assert.Equal(t, 0.85, cfg.Forecast.TrainSize)
				assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
			},
		},
		{
			name: "file values apply and env wins over file",
			file: `
server:
  port: 7000
forecast:
  steps: 24
  criterion: bic
logging:
  level: warn
`,
			env: map[string]string{"TIMESEER_LOGGING_LEVEL": "error"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 24, cfg.Forecast.Steps)
				assert.Equal(t, "bic", cfg.Forecast.Criterion)
				assert.Equal(t, "error", cfg.Logging.Level)
				// untouched keys keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"TIMESEER_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "train size out of range",
			env:     map[string]string{"TIMESEER_FORECAST_TRAIN_SIZE": "1.5"},
			wantErr: true,
		},
		{
			name:    "unknown criterion",
			env:     map[string]string{"TIMESEER_FORECAST_CRITERION": "hqic"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"TIMESEER_SERVER_PORT": "not-a-number"},
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			file:    "server: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "timeseer.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
				t.Setenv(EnvPrefix+"_CONFIG", path)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Run("partial file keeps existing values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timeseer.yaml")
		require.NoError(t, os.WriteFile(path, []byte("session:\n  max_sessions: 3\n"), 0644))

		cfg := Default()
		require.NoError(t, loadFromFile(path, cfg))
		assert.Equal(t, 3, cfg.Session.MaxSessions)
		assert.Equal(t, "timeseer_session", cfg.Session.CookieName)
	})

	t.Run("non-existent file", func(t *testing.T) {
		assert.Error(t, loadFromFile("/non/existent/file.yaml", Default()))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "cors without origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:   "cors disabled allows empty origins",
			mutate: func(c *Config) { c.Security.EnableCORS = false; c.Security.AllowedOrigins = nil },
		},
		{
			name:    "max steps below default steps",
			mutate:  func(c *Config) { c.Forecast.MaxSteps = 6 },
			wantErr: "max steps",
		},
		{
			name:    "non-positive session ttl",
			mutate:  func(c *Config) { c.Session.TTL = 0 },
			wantErr: "session ttl",
		},
		{
			name:   "unknown log output falls back to console",
			mutate: func(c *Config) { c.Logging.Output = "syslog"; c.Logging.FilePath = "" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "console", c.Logging.Output)
				assert.Equal(t, filepath.Join("logs", "timeseer.log"), c.Logging.FilePath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, MinDataPoints, cfg.Forecast.MinDataPoints)
	assert.Equal(t, DefaultSeasonalPeriod, cfg.Forecast.SeasonalPeriod)
	assert.Equal(t, "@every 5m", cfg.Session.JanitorSchedule)
	assert.Equal(t, AppName, cfg.Telemetry.ServiceName)
	assert.NoError(t, Default().validate())
}
