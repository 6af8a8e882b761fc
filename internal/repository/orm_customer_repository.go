package repository

import (
	"context"
	"fmt"

	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/repository/crud"
)

// ORMCustomerRepository maps the customer contract onto a generic crud.Repository.
type ORMCustomerRepository struct {
	Crud crud.Repository[model.Customer]
}

func (r *ORMCustomerRepository) SelectAllCustomers(ctx context.Context) ([]model.Customer, error) {
	return r.Crud.FindAll(ctx)
}

func (r *ORMCustomerRepository) SelectCustomerByID(ctx context.Context, id int) (*model.Customer, error) {
	return r.Crud.FindByID(ctx, id)
}

func (r *ORMCustomerRepository) AddCustomer(ctx context.Context, c *model.Customer) error {
	// Save only inserts when the key is unset.
	c.ID = 0
	if err := r.Crud.Save(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return err
	}
	return nil
}

func (r *ORMCustomerRepository) ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error) {
	return r.Crud.ExistsBy(ctx, "email", email)
}

func (r *ORMCustomerRepository) DeleteCustomerByID(ctx context.Context, id int) (bool, error) {
	exists, err := r.Crud.ExistsByID(ctx, id)
	if err != nil || !exists {
		return false, err
	}

	if err := r.Crud.DeleteByID(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateCustomer refuses to update an unknown id instead of letting Save
// create a new row.
func (r *ORMCustomerRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	exists, err := r.Crud.ExistsByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if err := r.Crud.Save(ctx, &c); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return nil, err
	}
	return &c, nil
}

var _ CustomerRepositoryInterface = (*ORMCustomerRepository)(nil)
