package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/sirupsen/logrus"

	"github.com/mjosh1982/customerservice-repo/internal/repository"
)

type DatabaseConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=customer"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

// DSN returns the postgres connection url.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type Config struct {
	ListenAddress string `env:"LISTEN_ADDRESS, default=:8080"`
	Backend       string `env:"CUSTOMER_BACKEND, default=sql"`

	Database DatabaseConfig

	MongoDBURL        string `env:"MONGO_URL"`
	MongoDatabaseName string `env:"MONGO_DATABASE, default=customer-service"`

	AMQPURL     string `env:"AMQP_URL"`
	EventsQueue string `env:"EVENTS_QUEUE, default=customer_events"`

	LogLevel    string `env:"LOG_LEVEL, default=info"`
	LogFormat   string `env:"LOG_FORMAT, default=text"`
	TraceStdout bool   `env:"TRACE_STDOUT, default=false"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on OS environment variables")
	}

	return Process(ctx, envconfig.OsLookuper())
}

// Process parses the configuration from l and validates it.
func Process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	backend, err := repository.ParseBackend(c.Backend)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if backend == repository.BackendMongo && c.MongoDBURL == "" {
		result = multierror.Append(result, fmt.Errorf("MONGO_URL is required for the %s backend", backend))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// CustomerBackend returns the validated backend name.
func (c *Config) CustomerBackend() repository.Backend {
	return repository.Backend(c.Backend)
}

// ConfigureLogging applies the log level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
