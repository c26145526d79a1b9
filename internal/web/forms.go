// internal/web/forms.go
package web

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/unclebandit/customer-records/internal/model"
)

// CustomerForm is the customer form as submitted by the browser.
type CustomerForm struct {
	FirstName   string `form:"first_name" validate:"required"`
	LastName    string `form:"last_name" validate:"required"`
	PhoneNumber string `form:"phone_number" validate:"required,number,min=10,max=15"`
}

// AddressForm is the address form as submitted by the browser.
type AddressForm struct {
	AddressDetails string `form:"address_details" validate:"required"`
	City           string `form:"city" validate:"required"`
	State          string `form:"state" validate:"required"`
	PinCode        string `form:"pin_code" validate:"required,number,len=6"`
}

// FieldErrors maps a form field name to the message shown under it.
type FieldErrors map[string]string

var formValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}()

var requiredMessages = map[string]string{
	"first_name":      "First name is required",
	"last_name":       "Last name is required",
	"phone_number":    "Phone number is required",
	"address_details": "Address details are required",
	"city":            "City is required",
	"state":           "State is required",
	"pin_code":        "Pin code is required",
}

var formatMessages = map[string]string{
	"phone_number": "Phone number must be 10-15 digits",
	"pin_code":     "Pin code must be 6 digits",
}

func validateForm(form interface{}) FieldErrors {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if fe.Tag() == "required" {
			out[fe.Field()] = requiredMessages[fe.Field()]
		} else {
			out[fe.Field()] = formatMessages[fe.Field()]
		}
	}
	return out
}

func (f *CustomerForm) trim() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
}

// Validate trims every field and returns per-field messages, or nil when valid.
func (f *CustomerForm) Validate() FieldErrors {
	f.trim()
	return validateForm(f)
}

func (f CustomerForm) Input() model.CustomerInput {
	return model.CustomerInput{FirstName: f.FirstName, LastName: f.LastName, PhoneNumber: f.PhoneNumber}
}

func customerFormFrom(c *model.Customer) CustomerForm {
	return CustomerForm{FirstName: c.FirstName, LastName: c.LastName, PhoneNumber: c.PhoneNumber}
}

func (f *AddressForm) trim() {
	f.AddressDetails = strings.TrimSpace(f.AddressDetails)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PinCode = strings.TrimSpace(f.PinCode)
}

func (f *AddressForm) Validate() FieldErrors {
	f.trim()
	return validateForm(f)
}

func (f AddressForm) Input() model.AddressInput {
	return model.AddressInput{AddressDetails: f.AddressDetails, City: f.City, State: f.State, PinCode: f.PinCode}
}

func addressFormFrom(a *model.Address) AddressForm {
	return AddressForm{AddressDetails: a.AddressDetails, City: a.City, State: a.State, PinCode: a.PinCode}
}
