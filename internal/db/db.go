// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema is applied by EnsureSchema. The UNIQUE constraint backs up the
// service level email check.
const Schema = `
CREATE TABLE IF NOT EXISTS customer (
    id    SERIAL PRIMARY KEY,
    name  TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    age   INT  NOT NULL
)`

var (
	registerOnce sync.Once
	driverName   string
	registerErr  error
)

// tracedDriver registers the otelsql wrapped postgres driver once per process.
func tracedDriver(dbName string) (string, error) {
	registerOnce.Do(func() {
		driverName, registerErr = otelsql.Register("postgres",
			otelsql.AllowRoot(),
			otelsql.TraceQueryWithoutArgs(),
			otelsql.TraceRowsClose(),
			otelsql.TraceRowsAffected(),
			otelsql.WithDatabaseName(dbName),
			otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		)
	})
	return driverName, registerErr
}

// Open connects to postgres through the instrumented driver and verifies the
// connection.
func Open(ctx context.Context, dsn, dbName string) (*sql.DB, error) {
	name, err := tracedDriver(dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to register sql driver: %w", err)
	}

	conn, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if err := otelsql.RecordStats(conn,
		otelsql.WithDatabaseName(dbName),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	); err != nil {
		logrus.WithError(err).Warn("failed to record database stats")
	}

	logrus.WithField("database", dbName).Info("connected to database")

	return conn, nil
}

// EnsureSchema creates the customer table when it does not exist yet.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create customer table: %w", err)
	}
	return nil
}

// OpenGorm wraps an open connection pool with gorm.
func OpenGorm(conn *sql.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gorm session: %w", err)
	}
	return gdb, nil
}

// ConnectMongo connects and pings a mongodb server.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb server: %w", err)
	}

	return cli.Database(dbName), nil
}
