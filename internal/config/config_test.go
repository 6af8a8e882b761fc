package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjosh1982/customerservice-repo/internal/repository"
)

func TestProcessDefaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddress)
	assert.Equal(t, repository.BackendSQL, cfg.CustomerBackend())
	assert.Equal(t, "customer_events", cfg.EventsQueue)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TraceStdout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/customer?sslmode=disable", cfg.Database.DSN())
}

func TestProcessOverrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"CUSTOMER_BACKEND": "mongo",
		"MONGO_URL":        "mongodb://localhost:27017",
		"DB_HOST":          "db",
		"DB_PASSWORD":      "secret",
		"LOG_FORMAT":       "json",
		"TRACE_STDOUT":     "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, repository.BackendMongo, cfg.CustomerBackend())
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDBURL)
	assert.Equal(t, "customer-service", cfg.MongoDatabaseName)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.TraceStdout)
	assert.Equal(t, "postgres://postgres:secret@db:5432/customer?sslmode=disable", cfg.Database.DSN())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"CUSTOMER_BACKEND": "jdbc",
		"LOG_LEVEL":        "loud",
		"LOG_FORMAT":       "xml",
	}))
	require.Error(t, err)

	assert.Contains(t, err.Error(), `unknown customer backend "jdbc"`)
	assert.Contains(t, err.Error(), `not a valid logrus Level: "loud"`)
	assert.Contains(t, err.Error(), `unsupported LOG_FORMAT "xml"`)
}

func TestValidateMongoNeedsURL(t *testing.T) {
	cfg := &Config{Backend: "mongo", LogLevel: "info", LogFormat: "text"}

	assert.EqualError(t, cfg.Validate(), "1 error occurred:\n\t* MONGO_URL is required for the mongo backend\n\n")
}
