// cmd/seeder/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mjosh1982/customerservice-repo/internal/app"
	"github.com/mjosh1982/customerservice-repo/internal/config"
	appErrors "github.com/mjosh1982/customerservice-repo/internal/errors"
	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/service"
)

var (
	firstNames = []string{"Alex", "Jamila", "Manoj", "Ana", "Tomas", "Wanjiru", "Lena", "Kofi", "Priya", "Sven"}
	lastNames  = []string{"Smith", "Joshi", "Okafor", "Novak", "Mwangi", "Berg", "Costa", "Ito", "Haddad", "Rossi"}
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Fatal(err.Error())
	}
}

func newRootCommand() *cobra.Command {
	var (
		count       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "seeder",
		Short: "Insert randomly generated customers through the customer service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadConfig(ctx)
			if err != nil {
				return err
			}
			cfg.ConfigureLogging()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := application.Close(); err != nil {
					logrus.Errorf("failed to release resources: %s", err)
				}
			}()

			added, err := seed(ctx, application.Service, count, concurrency)
			logrus.WithField("backend", cfg.Backend).Infof("seeded %d customers", added)
			return err
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of customers to insert")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent inserts")

	return cmd
}

func randomRequest() model.CustomerRegistrationRequest {
	first := firstNames[rand.Intn(len(firstNames))]
	last := lastNames[rand.Intn(len(lastNames))]

	return model.CustomerRegistrationRequest{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s-%s@example.com", strings.ToLower(first), strings.ToLower(last), uuid.NewString()[:8]),
		Age:   16 + rand.Intn(83),
	}
}

// seed adds count customers and returns how many were stored. Email
// collisions are skipped.
func seed(ctx context.Context, svc *service.CustomerService, count, concurrency int) (int, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	added := make(chan struct{}, count)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := svc.AddCustomer(gctx, randomRequest())

			var duplicate *appErrors.ErrDuplicateEmail
			if errors.As(err, &duplicate) {
				logrus.WithField("email", duplicate.Email).Warn("skipping duplicate customer")
				return nil
			}
			if err != nil {
				return err
			}

			added <- struct{}{}
			return nil
		})
	}

	err := g.Wait()
	close(added)

	return len(added), err
}
