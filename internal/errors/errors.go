// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCustomerNotFound is returned when no customer matches the requested id.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with id [%d] not found", e.CustomerID)
}

// NewCustomerNotFound builds an ErrCustomerNotFound for id.
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrDuplicateEmail is returned when a customer with the same email already exists.
type ErrDuplicateEmail struct {
	Email string
}

func (e *ErrDuplicateEmail) Error() string {
	return "email already taken"
}

func NewDuplicateEmail(email string) error {
	return &ErrDuplicateEmail{Email: email}
}
