package service_test

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	appErrors "github.com/mjosh1982/customerservice-repo/internal/errors"
	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/repository"
	"github.com/mjosh1982/customerservice-repo/internal/service"
)

var propertyEmails = []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}

// Emails stay unique whatever order registrations and deletions arrive in.
func TestCustomerService_EmailsStayUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		svc := &service.CustomerService{CustomerRepo: repository.NewInMemoryCustomerRepository()}

		// email -> id of the live customer using it
		live := map[string]int{}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			email := rapid.SampledFrom(propertyEmails).Draw(t, "email")

			if rapid.Bool().Draw(t, "delete") {
				id, ok := live[email]
				if !ok {
					continue
				}
				deleted, err := svc.DeleteCustomerByID(ctx, id)
				if err != nil || !deleted {
					t.Fatalf("delete %d: deleted=%v err=%v", id, deleted, err)
				}
				delete(live, email)
				continue
			}

			c, err := svc.AddCustomer(ctx, model.CustomerRegistrationRequest{
				Name:  rapid.StringN(1, 10, -1).Draw(t, "name"),
				Email: email,
				Age:   rapid.IntRange(0, 120).Draw(t, "age"),
			})

			_, taken := live[email]
			var duplicate *appErrors.ErrDuplicateEmail
			switch {
			case taken && !errors.As(err, &duplicate):
				t.Fatalf("expected duplicate email error for %s, got %v", email, err)
			case !taken && err != nil:
				t.Fatalf("unexpected error for %s: %v", email, err)
			case !taken:
				live[email] = c.ID
			}
		}

		all, err := svc.GetAllCustomers(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != len(live) {
			t.Fatalf("stored %d customers, expected %d", len(all), len(live))
		}
		for _, c := range all {
			if live[c.Email] != c.ID {
				t.Fatalf("customer %d has email %s owned by %d", c.ID, c.Email, live[c.Email])
			}
		}
	})
}

// Ids handed out by AddCustomer are unique and resolve to the stored customer.
func TestCustomerService_IDsResolve(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		svc := &service.CustomerService{CustomerRepo: repository.NewInMemoryCustomerRepository()}

		n := rapid.IntRange(1, 20).Draw(t, "n")
		seen := map[int]model.Customer{}

		for i := 0; i < n; i++ {
			req := model.CustomerRegistrationRequest{
				Name:  rapid.StringN(1, 10, -1).Draw(t, "name"),
				Email: rapid.StringMatching(`[a-z]{3,8}`).Draw(t, "local") + "@x.com",
				Age:   rapid.IntRange(0, 120).Draw(t, "age"),
			}

			c, err := svc.AddCustomer(ctx, req)
			var duplicate *appErrors.ErrDuplicateEmail
			if errors.As(err, &duplicate) {
				continue
			}
			if err != nil {
				t.Fatal(err)
			}
			if _, dup := seen[c.ID]; dup {
				t.Fatalf("id %d handed out twice", c.ID)
			}
			seen[c.ID] = *c
		}

		for id, want := range seen {
			got, err := svc.GetCustomerByID(ctx, id)
			if err != nil {
				t.Fatal(err)
			}
			if *got != want {
				t.Fatalf("customer %d: got %+v, want %+v", id, *got, want)
			}
		}
	})
}
