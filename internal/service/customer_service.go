// internal/service/customer_service.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	appErrors "github.com/mjosh1982/customerservice-repo/internal/errors"
	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/queue"
	"github.com/mjosh1982/customerservice-repo/internal/repository"
)

const instrumentationName = "github.com/mjosh1982/customerservice-repo/internal/service"

var tracer = otel.Tracer(instrumentationName)

// CustomerService enforces the customer invariants on top of whichever
// repository backend it is given.
type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface

	// Events is optional. When set, lifecycle events are published to EventsTopic.
	Events      queue.Publisher
	EventsTopic string

	// addMu serializes the email check and the insert of AddCustomer.
	addMu sync.Mutex

	metricsOnce sync.Once
	registered  metric.Int64Counter
}

func (s *CustomerService) GetAllCustomers(ctx context.Context) ([]model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.GetAllCustomers")
	defer span.End()

	customers, err := s.CustomerRepo.SelectAllCustomers(ctx)
	return customers, recordErr(span, err)
}

// GetCustomerByID returns *appErrors.ErrCustomerNotFound when id is unknown.
func (s *CustomerService) GetCustomerByID(ctx context.Context, id int) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.GetCustomerByID",
		trace.WithAttributes(attribute.Int("customer.id", id)))
	defer span.End()

	customer, err := s.CustomerRepo.SelectCustomerByID(ctx, id)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if customer == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}

	return customer, nil
}

// AddCustomer stores a new customer built from req and returns it with its
// generated id. It returns *appErrors.ErrDuplicateEmail when the email is
// already in use.
func (s *CustomerService) AddCustomer(ctx context.Context, req model.CustomerRegistrationRequest) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.AddCustomer")
	defer span.End()

	s.addMu.Lock()
	defer s.addMu.Unlock()

	exists, err := s.CustomerRepo.ExistsCustomerWithEmail(ctx, req.Email)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if exists {
		return nil, appErrors.NewDuplicateEmail(req.Email)
	}

	customer := &model.Customer{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}

	if err := s.CustomerRepo.AddCustomer(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, appErrors.NewDuplicateEmail(req.Email)
		}
		return nil, recordErr(span, err)
	}

	span.SetAttributes(attribute.Int("customer.id", customer.ID))
	s.counter().Add(ctx, 1)
	logrus.WithField("customer_id", customer.ID).Info("customer registered")

	s.publish(model.CustomerRegistered, *customer)

	return customer, nil
}

// DeleteCustomerByID reports whether a customer was removed. Unknown ids are
// not an error.
func (s *CustomerService) DeleteCustomerByID(ctx context.Context, id int) (bool, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.DeleteCustomerByID",
		trace.WithAttributes(attribute.Int("customer.id", id)))
	defer span.End()

	deleted, err := s.CustomerRepo.DeleteCustomerByID(ctx, id)
	if err != nil {
		return false, recordErr(span, err)
	}

	if deleted {
		s.publish(model.CustomerDeleted, model.Customer{ID: id})
	}

	return deleted, nil
}

// UpdateCustomerDetails replaces name, email and age of customer.ID. The new
// email is not checked against other customers.
func (s *CustomerService) UpdateCustomerDetails(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.UpdateCustomerDetails",
		trace.WithAttributes(attribute.Int("customer.id", customer.ID)))
	defer span.End()

	updated, err := s.CustomerRepo.UpdateCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, appErrors.NewDuplicateEmail(customer.Email)
		}
		return nil, recordErr(span, err)
	}
	if updated == nil {
		return nil, appErrors.NewCustomerNotFound(customer.ID)
	}

	s.publish(model.CustomerUpdated, *updated)

	return updated, nil
}

func (s *CustomerService) publish(eventType string, c model.Customer) {
	if s.Events == nil {
		return
	}

	topic := s.EventsTopic
	if topic == "" {
		topic = queue.CustomerEventsTopic
	}

	event := model.CustomerEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Customer:   c,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.Events.Publish(topic, event); err != nil {
		logrus.WithError(err).
			WithField("event", eventType).
			WithField("customer_id", c.ID).
			Warn("failed to publish customer event")
	}
}

func (s *CustomerService) counter() metric.Int64Counter {
	s.metricsOnce.Do(func() {
		c, err := otel.Meter(instrumentationName).Int64Counter("customers.registered",
			metric.WithDescription("Number of customers registered"))
		if err != nil {
			otel.Handle(err)
			c = noop.Int64Counter{}
		}
		s.registered = c
	})
	return s.registered
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
