package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/mjosh1982/customerservice-repo/internal/app"
	"github.com/mjosh1982/customerservice-repo/internal/config"
	"github.com/mjosh1982/customerservice-repo/internal/queue"
	"github.com/mjosh1982/customerservice-repo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		logrus.Fatalf("failed to load configuration: %s", err)
	}
	cfg.ConfigureLogging()

	if cfg.AMQPURL == "" {
		logrus.Fatal("missing AMQP_URL")
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		logrus.Fatal(err.Error())
	}
	defer q.Close()

	worker := service.NewEventWorker(app.LogEvent)
	if err := worker.Subscribe(q, cfg.EventsQueue); err != nil {
		logrus.Fatalf("failed to subscribe to %s: %s", cfg.EventsQueue, err)
	}

	logrus.Infof("worker running, waiting for events on %s", cfg.EventsQueue)
	<-ctx.Done()

	logrus.WithField("stats", worker.Stats()).Info("worker stopped")
}
