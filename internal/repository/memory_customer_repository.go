package repository

import (
	"context"
	"sync"

	"github.com/mjosh1982/customerservice-repo/internal/model"
)

// InMemoryCustomerRepository keeps customers in an ordered slice owned by the
// instance. Every access goes through mu.
type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []model.Customer
	lastID    int
}

// NewInMemoryCustomerRepository creates a store pre-filled with seed. Seed ids
// are ignored and assigned in order, like any other insert.
func NewInMemoryCustomerRepository(seed ...model.Customer) *InMemoryCustomerRepository {
	r := &InMemoryCustomerRepository{
		customers: make([]model.Customer, 0, len(seed)),
	}
	for i := range seed {
		c := seed[i]
		r.insert(&c)
	}
	return r
}

// insert expects mu to be held for writing.
func (r *InMemoryCustomerRepository) insert(c *model.Customer) {
	r.lastID++
	c.ID = r.lastID
	r.customers = append(r.customers, *c)
}

// indexOf expects mu to be held.
func (r *InMemoryCustomerRepository) indexOf(id int) int {
	for i := range r.customers {
		if r.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryCustomerRepository) SelectAllCustomers(_ context.Context) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}

func (r *InMemoryCustomerRepository) SelectCustomerByID(_ context.Context, id int) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	c := r.customers[idx]
	return &c, nil
}

func (r *InMemoryCustomerRepository) AddCustomer(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(c)
	return nil
}

func (r *InMemoryCustomerRepository) ExistsCustomerWithEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.customers {
		if r.customers[i].Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryCustomerRepository) DeleteCustomerByID(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	r.customers = append(r.customers[:idx], r.customers[idx+1:]...)
	return true, nil
}

func (r *InMemoryCustomerRepository) UpdateCustomer(_ context.Context, c model.Customer) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(c.ID)
	if idx < 0 {
		return nil, nil
	}
	r.customers[idx] = c
	return &c, nil
}

var _ CustomerRepositoryInterface = (*InMemoryCustomerRepository)(nil)
