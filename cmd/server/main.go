// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mjosh1982/customerservice-repo/internal/app"
	"github.com/mjosh1982/customerservice-repo/internal/config"
	"github.com/mjosh1982/customerservice-repo/internal/controller"
	"github.com/mjosh1982/customerservice-repo/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		logrus.Fatalf("failed to load configuration: %s", err)
	}
	cfg.ConfigureLogging()

	shutdownTelemetry, err := telemetry.Setup("customer-service", cfg.TraceStdout)
	if err != nil {
		logrus.Fatalf("failed to setup telemetry: %s", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to create application: %s", err)
	}

	customerController := &controller.CustomerController{
		CustomerService: application.Service,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// Customer routes
	r.Mount("/api/v1/customers", customerController.Routes())

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("server running on %s", cfg.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.Errorf("server stopped: %s", err)
	}

	if err := application.Close(); err != nil {
		logrus.Errorf("failed to release resources: %s", err)
	}

	if err := shutdownTelemetry(context.Background()); err != nil {
		logrus.Errorf("failed to shutdown telemetry: %s", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Info("handled request")
	})
}
