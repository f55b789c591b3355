package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Gateway  GatewayConfig  `yaml:"gateway"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Path             string `yaml:"path"`
	LogRetentionDays int    `yaml:"log_retention_days"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GatewayConfig bounds outbound provider calls.
type GatewayConfig struct {
	GenerateTimeoutSeconds int `yaml:"generate_timeout_seconds"`
	TestTimeoutSeconds     int `yaml:"test_timeout_seconds"`
}

func (g GatewayConfig) GenerateTimeout() time.Duration {
	return time.Duration(g.GenerateTimeoutSeconds) * time.Second
}

func (g GatewayConfig) TestTimeout() time.Duration {
	return time.Duration(g.TestTimeoutSeconds) * time.Second
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                7411,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 150,
		},
		Database: DatabaseConfig{
			Path:             "./promptify.db",
			LogRetentionDays: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Gateway: GatewayConfig{
			GenerateTimeoutSeconds: 120,
			TestTimeoutSeconds:     15,
		},
	}
}

// Load reads a YAML config file and merges it over defaults.
// If the file does not exist, defaults are returned without error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No config file found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout_seconds must be > 0, got %d", c.Server.ReadTimeoutSeconds))
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout_seconds must be > 0, got %d", c.Server.WriteTimeoutSeconds))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.Database.LogRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("database.log_retention_days must be >= 0, got %d", c.Database.LogRetentionDays))
	}
	if _, ok := ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Gateway.GenerateTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("gateway.generate_timeout_seconds must be > 0, got %d", c.Gateway.GenerateTimeoutSeconds))
	}
	if c.Gateway.TestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("gateway.test_timeout_seconds must be > 0, got %d", c.Gateway.TestTimeoutSeconds))
	}
	// A response slower than the write deadline would be cut off mid-flight.
	if c.Server.WriteTimeoutSeconds > 0 && c.Server.WriteTimeoutSeconds <= c.Gateway.GenerateTimeoutSeconds {
		errs = append(errs, fmt.Errorf("server.write_timeout_seconds (%d) must exceed gateway.generate_timeout_seconds (%d)",
			c.Server.WriteTimeoutSeconds, c.Gateway.GenerateTimeoutSeconds))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
