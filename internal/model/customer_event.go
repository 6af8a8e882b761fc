// internal/model/customer_event.go
package model

import "time"

const (
	CustomerRegistered = "customer.registered"
	CustomerUpdated    = "customer.updated"
	CustomerDeleted    = "customer.deleted"
)

// CustomerEvent is published after a customer has been changed.
type CustomerEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Customer   Customer  `json:"customer"`
	OccurredAt time.Time `json:"occurred_at"`
}
