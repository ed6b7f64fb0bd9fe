package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type AppConfig struct {
	Environment    string `env:"APP_ENV" env-default:"development"`
	ServiceName    string `env:"SERVICE_NAME" env-default:"todoapi"`
	ServiceVersion string `env:"SERVICE_VERSION" env-default:"1.0.0"`

	HTTP      HTTPConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
}

type HTTPConfig struct {
	Host               string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port               int           `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"sqlite"`
	Path            string        `env:"DATABASE_PATH" env-default:"todos.db"`
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
	LogQueries      bool          `env:"DB_LOG_QUERIES" env-default:"false"`
}

type TelemetryConfig struct {
	Enabled      bool   `env:"TELEMETRY_ENABLED" env-default:"false"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
	MetricsPort  int    `env:"METRICS_PORT" env-default:"9091"`
	LokiURL      string `env:"LOKI_URL"`
}

// Load reads the configuration from the environment, falling back to the
// defaults declared on each field.
func Load() (*AppConfig, error) {
	var cfg AppConfig

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTP.Port)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// GetDefaultConfig returns the defaults without looking at the environment.
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:    "development",
		ServiceName:    "todoapi",
		ServiceVersion: "1.0.0",
		HTTP: HTTPConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "todos.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			MetricsPort: 9091,
		},
	}
}
