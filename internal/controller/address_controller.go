// internal/controller/address_controller.go
package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/service"
)

type AddressController struct {
	AddressService *service.AddressService
	Log            *zap.Logger
}

// ListAddresses serves GET /customers/{id}/addresses. An unknown customer has no addresses.
func (c *AddressController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	addresses, err := c.AddressService.ListAddresses(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	writeSuccess(w, http.StatusOK, addresses)
}

func (c *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := c.AddressService.CreateAddress(r.Context(), customerID, body)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, address)
}

func (c *AddressController) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	address, err := c.AddressService.GetAddress(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, address)
}

func (c *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid address id")
		return
	}
	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := c.AddressService.UpdateAddress(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, address)
}

func (c *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	if err := c.AddressService.DeleteAddress(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"id": id})
}
