// internal/model/event.go
package model

import "time"

const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
	EventAddressCreated  = "address.created"
	EventAddressUpdated  = "address.updated"
	EventAddressDeleted  = "address.deleted"
)

// Event describes a committed change to a customer or address.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   int       `json:"entity_id"`
	CustomerID *int      `json:"customer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
