// internal/model/address.go
package model

type Address struct {
	ID             int    `db:"id" json:"id"`
	CustomerID     *int   `db:"customer_id" json:"customer_id"`
	AddressDetails string `db:"address_details" json:"address_details"`
	City           string `db:"city" json:"city"`
	State          string `db:"state" json:"state"`
	PinCode        string `db:"pin_code" json:"pin_code"`
}

// AddressInput is the writable part of an address; the owner comes from the path.
type AddressInput struct {
	AddressDetails string `json:"address_details" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	PinCode        string `json:"pin_code" validate:"required"`
}
