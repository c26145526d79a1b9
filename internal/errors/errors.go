// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when an id does not resolve to a row.
type ErrNotFound struct {
	Entity string
	ID     int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ErrValidation is returned when a required field is missing.
type ErrValidation struct {
	Message string
	Fields  []string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrConflict is returned when a unique constraint rejects a write.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

func NewCustomerNotFound(id int) error {
	return &ErrNotFound{Entity: "Customer", ID: id}
}

func NewAddressNotFound(id int) error {
	return &ErrNotFound{Entity: "Address", ID: id}
}

// NewRequiredFields reports the empty fields with the message clients already show.
func NewRequiredFields(fields ...string) error {
	return &ErrValidation{Message: "All fields are required", Fields: fields}
}

func NewDuplicatePhone() error {
	return &ErrConflict{Message: "Phone number already exists"}
}

func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ErrConflict
	return errors.As(err, &e)
}

// HTTPStatus maps an error to the status the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
