package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the estaterec API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Auth      AuthConfig      `yaml:"auth"`
	Ingest    IngestConfig    `yaml:"ingest"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`       // debug, info, warn, error (default: determined by env)
	SQLSlowMs int    `yaml:"sql_slow_ms"` // queries slower than this are logged at warn
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // sqlite, postgres (default: sqlite)
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// SessionsConfig holds session store settings.
type SessionsConfig struct {
	Driver           string   `yaml:"driver"` // memory, valkey, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AuthConfig holds login and session token settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	SessionTTLMin int    `yaml:"session_ttl_min"`
	CookieName    string `yaml:"cookie_name"`
	CookieSecure  bool   `yaml:"cookie_secure"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// IngestConfig holds CSV upload settings.
type IngestConfig struct {
	MaxUploadMB int    `yaml:"max_upload_mb"`
	BatchSize   int    `yaml:"batch_size"`
	SeedFile    string `yaml:"seed_file"` // loaded at startup when set
}

// CORSConfig holds cross-origin settings. Credentials are always allowed.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig limits login attempts per client IP.
type RateLimitConfig struct {
	LoginRequests  int `yaml:"login_requests"`
	LoginWindowSec int `yaml:"login_window_sec"`
}

// SessionTTL returns the session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMin) * time.Minute
}

// MaxUploadBytes returns the upload size limit in bytes.
func (i IngestConfig) MaxUploadBytes() int64 {
	return int64(i.MaxUploadMB) << 20
}

// Load reads configuration from a YAML file by environment name (local, test, prod).
// A .env file in the working directory is loaded first when present.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one config file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "file:estaterec.db?_foreign_keys=on"
	}
	if c.Sessions.Driver == "" {
		c.Sessions.Driver = "memory"
	}
	if c.Sessions.ReadinessTimeout <= 0 {
		c.Sessions.ReadinessTimeout = 10
	}
	if c.Auth.SessionTTLMin <= 0 {
		c.Auth.SessionTTLMin = 24 * 60
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "estaterec_session"
	}
	if c.Ingest.MaxUploadMB <= 0 {
		c.Ingest.MaxUploadMB = 10
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 500
	}
	if c.RateLimit.LoginRequests <= 0 {
		c.RateLimit.LoginRequests = 10
	}
	if c.RateLimit.LoginWindowSec <= 0 {
		c.RateLimit.LoginWindowSec = 60
	}
	if c.Logging.SQLSlowMs <= 0 {
		c.Logging.SQLSlowMs = 200
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be \"sqlite\" or \"postgres\", got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.Sessions.Driver {
	case "memory":
	case "valkey", "redis":
		if len(c.Sessions.Addrs) == 0 {
			return fmt.Errorf("sessions.addrs is required for driver %q", c.Sessions.Driver)
		}
	default:
		return fmt.Errorf("sessions.driver must be \"memory\", \"valkey\" or \"redis\", got %q", c.Sessions.Driver)
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package directories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
