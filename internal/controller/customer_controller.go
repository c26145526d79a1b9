// internal/controller/customer_controller.go
package controller

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
	Log             *zap.Logger
}

// ListCustomers serves GET /customers?search=&sort=&order=&page=&limit=.
// Bad numbers are treated as absent and the service applies defaults.
func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	customers, pagination, err := c.CustomerService.ListCustomers(r.Context(),
		q.Get("search"), q.Get("sort"), q.Get("order"), page, limit)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}

	writeJSON(w, http.StatusOK, envelope{
		Message:    "success",
		Data:       customers,
		Pagination: &pagination,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, customer)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := c.CustomerService.CreateCustomer(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, customer)
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := c.CustomerService.UpdateCustomer(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, customer)
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := c.CustomerService.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Log, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"id": id})
}
