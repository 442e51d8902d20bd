package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides where the optional YAML file is read from.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

const devJWTSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	HTTP       HTTPConfig       `koanf:"http"`
	GRPC       GRPCConfig       `koanf:"grpc"`
	Auth       AuthConfig       `koanf:"auth"`
	Logging    LoggingConfig    `koanf:"logging"`
	Experiment ExperimentConfig `koanf:"experiment"`
}

// DatabaseConfig contains storage settings.
type DatabaseConfig struct {
	Path        string `koanf:"path"`         // SQLite database file path
	ActivityDir string `koanf:"activity_dir"` // Badger directory; empty keeps the log in memory
}

// HTTPConfig contains REST server settings.
type HTTPConfig struct {
	Address           string        `koanf:"address"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"` // per client, on login and register
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	HealthAddress string `koanf:"health_address"` // empty disables the health server
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"` // JWT signing secret
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

type ExperimentConfig struct {
	Size int `koanf:"size"` // rows seeded by the perf endpoints
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "geomaster.db", ActivityDir: "activity"},
		HTTP: HTTPConfig{
			Address:           ":3000",
			RequestTimeout:    10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 20,
			RateLimitWindow:   time.Minute,
		},
		GRPC:       GRPCConfig{HealthAddress: ":50051"},
		Auth:       AuthConfig{TokenTTL: 24 * time.Hour},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
		Experiment: ExperimentConfig{Size: 50000},
	}
}

// envKeys maps environment variables to config paths. Anything else in the
// environment is ignored.
var envKeys = map[string]string{
	"DB_PATH":              "database.path",
	"ACTIVITY_DIR":         "database.activity_dir",
	"HTTP_ADDRESS":         "http.address",
	"HTTP_REQUEST_TIMEOUT": "http.request_timeout",
	"CORS_ORIGINS":         "http.cors_origins",
	"RATE_LIMIT_REQUESTS":  "http.rate_limit_requests",
	"RATE_LIMIT_WINDOW":    "http.rate_limit_window",
	"GRPC_HEALTH_ADDRESS":  "grpc.health_address",
	"JWT_SECRET":           "auth.jwt_secret",
	"TOKEN_TTL":            "auth.token_ttl",
	"LOG_LEVEL":            "logging.level",
	"LOG_FORMAT":           "logging.format",
	"EXPERIMENT_SIZE":      "experiment.size",
}

func envTransformFunc(key string) string {
	return envKeys[key]
}

// Load layers defaults, the optional YAML file and environment variables.
// JWT_SECRET must be set.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitList(k, "http.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitList turns a comma-separated env value into a slice.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address must not be empty"))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("http.request_timeout must be positive"))
	}
	if c.HTTP.RateLimitRequests <= 0 || c.HTTP.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("http rate limit requests and window must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Experiment.Size < 1 {
		errs = append(errs, errors.New("experiment.size must be at least 1"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, Activity: %s, HTTP: %s, gRPC health: %s, Auth: *** (masked) ***, Log: %s/%s}",
		c.Database.Path, c.Database.ActivityDir, c.HTTP.Address, c.GRPC.HealthAddress, c.Logging.Level, c.Logging.Format)
}
