package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mjosh1982/customerservice-repo/internal/model"
)

// CustomerRepositoryInterface is the contract every customer backend satisfies.
type CustomerRepositoryInterface interface {
	// SelectAllCustomers returns every customer in storage order.
	SelectAllCustomers(ctx context.Context) ([]model.Customer, error)

	// SelectCustomerByID returns nil, nil when no customer has the given id.
	SelectCustomerByID(ctx context.Context, id int) (*model.Customer, error)

	// AddCustomer persists c and assigns the generated ID to it.
	// Duplicate emails are not checked here.
	AddCustomer(ctx context.Context, c *model.Customer) error

	// ExistsCustomerWithEmail reports whether a customer has exactly this email.
	ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error)

	// DeleteCustomerByID reports whether a customer existed and was removed.
	DeleteCustomerByID(ctx context.Context, id int) (bool, error)

	// UpdateCustomer replaces name, email and age of the customer with c.ID.
	// It returns nil, nil when no such customer exists.
	UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
}

// CustomerRepository is the raw SQL implementation backed by a postgres table.
type CustomerRepository struct {
	DB *sql.DB
}

const selectCustomerColumns = `SELECT id, name, email, age FROM customer`

// SelectAllCustomers fetches all customers
func (r *CustomerRepository) SelectAllCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, selectCustomerColumns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := MapCustomerRow(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}

	return customers, rows.Err()
}

// SelectCustomerByID fetches a customer by ID
func (r *CustomerRepository) SelectCustomerByID(ctx context.Context, id int) (*model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, selectCustomerColumns+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		// not found
		return nil, rows.Err()
	}

	return MapCustomerRow(rows)
}

func (r *CustomerRepository) AddCustomer(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customer (name, email, age)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	if err := r.DB.QueryRowContext(ctx, query, c.Name, c.Email, c.Age).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return err
	}

	return nil
}

func (r *CustomerRepository) ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customer WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	query := `UPDATE customer SET name = $1, email = $2, age = $3 WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, c.Name, c.Email, c.Age, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	return &c, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
