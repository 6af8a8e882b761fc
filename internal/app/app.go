// Package app wires configuration, storage, events and the customer service
// together for the command line entry points.
package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mjosh1982/customerservice-repo/internal/config"
	"github.com/mjosh1982/customerservice-repo/internal/db"
	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/queue"
	"github.com/mjosh1982/customerservice-repo/internal/repository"
	"github.com/mjosh1982/customerservice-repo/internal/service"
)

type App struct {
	Service *service.CustomerService
	Queue   queue.Queue

	closers []func() error
}

// New opens the storage of the configured backend and builds the service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	repo, err := a.openRepository(ctx, cfg)
	if err != nil {
		return nil, multierror.Append(err, a.Close()).ErrorOrNil()
	}

	q, err := a.openQueue(cfg)
	if err != nil {
		return nil, multierror.Append(err, a.Close()).ErrorOrNil()
	}
	a.Queue = q

	a.Service = &service.CustomerService{
		CustomerRepo: repo,
		Events:       q,
		EventsTopic:  cfg.EventsQueue,
	}

	logrus.WithField("backend", cfg.Backend).Info("customer service ready")

	return a, nil
}

func (a *App) openRepository(ctx context.Context, cfg *config.Config) (repository.CustomerRepositoryInterface, error) {
	backend := cfg.CustomerBackend()
	var deps repository.Deps

	switch backend {
	case repository.BackendSQL, repository.BackendORM:
		conn, err := db.Open(ctx, cfg.Database.DSN(), cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)

		if err := db.EnsureSchema(ctx, conn); err != nil {
			return nil, err
		}
		deps.SQL = conn

		if backend == repository.BackendORM {
			if deps.Gorm, err = db.OpenGorm(conn); err != nil {
				return nil, err
			}
		}

	case repository.BackendMongo:
		mdb, err := db.ConnectMongo(ctx, cfg.MongoDBURL, cfg.MongoDatabaseName)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			return mdb.Client().Disconnect(context.Background())
		})
		deps.Mongo = mdb
	}

	repo, err := repository.New(ctx, backend, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return repo, nil
}

// openQueue returns a RabbitMQ queue when AMQP_URL is set. Without it events
// stay in process and are only logged.
func (a *App) openQueue(cfg *config.Config) (queue.Queue, error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, q.Close)
		return q, nil
	}

	q := queue.NewInMemoryQueue()
	worker := service.NewEventWorker(LogEvent)
	if err := worker.Subscribe(q, cfg.EventsQueue); err != nil {
		return nil, err
	}
	return q, nil
}

// LogEvent is an EventHandler that writes the event to the log.
func LogEvent(event model.CustomerEvent) error {
	logrus.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"type":        event.Type,
		"customer_id": event.Customer.ID,
		"occurred_at": event.OccurredAt,
	}).Info("customer event")
	return nil
}

// Close releases every resource opened by New, in reverse order.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
