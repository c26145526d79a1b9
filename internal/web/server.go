// internal/web/server.go
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/client"
	"github.com/unclebandit/customer-records/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the subset of *client.Client the pages use.
type API interface {
	ListCustomers(ctx context.Context, p client.ListParams) ([]model.Customer, model.Pagination, error)
	GetCustomer(ctx context.Context, id int) (*model.Customer, error)
	CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
	ListAddresses(ctx context.Context, customerID int) ([]model.Address, error)
	GetAddress(ctx context.Context, id int) (*model.Address, error)
	CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error)
	UpdateAddress(ctx context.Context, id int, in model.AddressInput) (*model.Address, error)
	DeleteAddress(ctx context.Context, id int) error
}

var pageSizes = []int{5, 10, 20, 50}

type Server struct {
	api   API
	log   *zap.Logger
	pages map[string]*template.Template
}

func NewServer(api API, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{api: api, log: log, pages: map[string]*template.Template{}}
	for _, name := range []string{"customer_list", "customer_form", "customer_detail", "address_form"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// Routes returns the browser-facing router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/customers", http.StatusFound)
	})
	r.Get("/customers", s.listCustomers)
	r.Get("/customers/new", s.newCustomer)
	r.Post("/customers", s.createCustomer)
	r.Get("/customers/{id}", s.showCustomer)
	r.Get("/customers/{id}/edit", s.editCustomer)
	r.Post("/customers/{id}", s.updateCustomer)
	r.Post("/customers/{id}/delete", s.deleteCustomer)
	r.Get("/customers/{id}/addresses/new", s.newAddress)
	r.Post("/customers/{id}/addresses", s.createAddress)
	r.Get("/addresses/{id}/edit", s.editAddress)
	r.Post("/addresses/{id}", s.updateAddress)
	r.Post("/addresses/{id}/delete", s.deleteAddress)
	return r
}

type basePage struct {
	Title string
	Error string
}

type column struct {
	Label  string
	URL    string
	Active bool
}

type listPage struct {
	basePage
	Customers  []model.Customer
	Pagination model.Pagination
	Search     string
	Sort       string
	Order      string
	PageSizes  []int
	Columns    []column
	PrevURL    string
	NextURL    string
}

type customerFormPage struct {
	basePage
	Form        CustomerForm
	Errors      FieldErrors
	SubmitError string
	Action      string
	Cancel      string
}

type detailPage struct {
	basePage
	Customer  *model.Customer
	Addresses []model.Address
}

type addressFormPage struct {
	basePage
	Form        AddressForm
	Errors      FieldErrors
	SubmitError string
	Action      string
	Cancel      string
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// apiStatus returns the API status behind err, or 502 when the API was unreachable.
func apiStatus(err error) (int, string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusBadGateway, "The customer service is unavailable"
}

// submitError is the message shown above a form when the API rejects it.
func submitError(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apiStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("api call failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	s.render(w, status, "customer_detail", detailPage{basePage: basePage{Title: "Error", Error: msg}})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func listURL(search, sort, order string, page, limit int) string {
	v := url.Values{}
	if search != "" {
		v.Set("search", search)
	}
	v.Set("sort", sort)
	v.Set("order", order)
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	return "/customers?" + v.Encode()
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := client.ListParams{Search: q.Get("search"), Sort: q.Get("sort"), Order: q.Get("order")}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	customers, p, err := s.api.ListCustomers(r.Context(), params)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sort := model.SortField(params.Sort)
	order := "asc"
	if model.SortDirection(params.Order) == model.SortDesc {
		order = "desc"
	}

	page := listPage{
		basePage:   basePage{Title: "Customers"},
		Customers:  customers,
		Pagination: p,
		Search:     params.Search,
		Sort:       sort,
		Order:      order,
		PageSizes:  pageSizes,
	}
	for _, c := range []struct{ field, label string }{
		{"id", "ID"}, {"first_name", "First Name"}, {"last_name", "Last Name"}, {"phone_number", "Phone Number"},
	} {
		next := "asc"
		if c.field == sort && order == "asc" {
			next = "desc"
		}
		page.Columns = append(page.Columns, column{
			Label:  c.label,
			URL:    listURL(params.Search, c.field, next, 1, p.Limit),
			Active: c.field == sort,
		})
	}
	if p.HasPrev {
		page.PrevURL = listURL(params.Search, sort, order, p.CurrentPage-1, p.Limit)
	}
	if p.HasNext {
		page.NextURL = listURL(params.Search, sort, order, p.CurrentPage+1, p.Limit)
	}
	s.render(w, http.StatusOK, "customer_list", page)
}

func (s *Server) showCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	customer, err := s.api.GetCustomer(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	addresses, err := s.api.ListAddresses(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "customer_detail", detailPage{
		basePage:  basePage{Title: customer.FirstName + " " + customer.LastName},
		Customer:  customer,
		Addresses: addresses,
	})
}

func (s *Server) newCustomer(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "customer_form", customerFormPage{
		basePage: basePage{Title: "Add Customer"},
		Action:   "/customers",
		Cancel:   "/customers",
	})
}

func parseCustomerForm(r *http.Request) CustomerForm {
	r.ParseForm()
	return CustomerForm{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		PhoneNumber: r.PostForm.Get("phone_number"),
	}
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	form := parseCustomerForm(r)
	page := customerFormPage{basePage: basePage{Title: "Add Customer"}, Form: form, Action: "/customers", Cancel: "/customers"}

	if page.Errors = page.Form.Validate(); page.Errors != nil {
		s.render(w, http.StatusUnprocessableEntity, "customer_form", page)
		return
	}
	customer, err := s.api.CreateCustomer(r.Context(), page.Form.Input())
	if err != nil {
		page.SubmitError = submitError(err, "An error occurred while saving the customer")
		s.render(w, http.StatusUnprocessableEntity, "customer_form", page)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/customers/%d", customer.ID), http.StatusSeeOther)
}

func (s *Server) editCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	customer, err := s.api.GetCustomer(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "customer_form", customerFormPage{
		basePage: basePage{Title: "Edit Customer"},
		Form:     customerFormFrom(customer),
		Action:   fmt.Sprintf("/customers/%d", id),
		Cancel:   fmt.Sprintf("/customers/%d", id),
	})
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page := customerFormPage{
		basePage: basePage{Title: "Edit Customer"},
		Form:     parseCustomerForm(r),
		Action:   fmt.Sprintf("/customers/%d", id),
		Cancel:   fmt.Sprintf("/customers/%d", id),
	}
	if page.Errors = page.Form.Validate(); page.Errors != nil {
		s.render(w, http.StatusUnprocessableEntity, "customer_form", page)
		return
	}
	if _, err := s.api.UpdateCustomer(r.Context(), id, page.Form.Input()); err != nil {
		page.SubmitError = submitError(err, "An error occurred while saving the customer")
		s.render(w, http.StatusUnprocessableEntity, "customer_form", page)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/customers/%d", id), http.StatusSeeOther)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.api.DeleteCustomer(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

func parseAddressForm(r *http.Request) AddressForm {
	r.ParseForm()
	return AddressForm{
		AddressDetails: r.PostForm.Get("address_details"),
		City:           r.PostForm.Get("city"),
		State:          r.PostForm.Get("state"),
		PinCode:        r.PostForm.Get("pin_code"),
	}
}

func (s *Server) newAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "address_form", addressFormPage{
		basePage: basePage{Title: "Add Address"},
		Action:   fmt.Sprintf("/customers/%d/addresses", id),
		Cancel:   fmt.Sprintf("/customers/%d", id),
	})
}

func (s *Server) createAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page := addressFormPage{
		basePage: basePage{Title: "Add Address"},
		Form:     parseAddressForm(r),
		Action:   fmt.Sprintf("/customers/%d/addresses", id),
		Cancel:   fmt.Sprintf("/customers/%d", id),
	}
	if page.Errors = page.Form.Validate(); page.Errors != nil {
		s.render(w, http.StatusUnprocessableEntity, "address_form", page)
		return
	}
	if _, err := s.api.CreateAddress(r.Context(), id, page.Form.Input()); err != nil {
		page.SubmitError = submitError(err, "An error occurred while saving the address")
		s.render(w, http.StatusUnprocessableEntity, "address_form", page)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/customers/%d", id), http.StatusSeeOther)
}

func (s *Server) editAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	address, err := s.api.GetAddress(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "address_form", addressFormPage{
		basePage: basePage{Title: "Edit Address"},
		Form:     addressFormFrom(address),
		Action:   fmt.Sprintf("/addresses/%d", id),
		Cancel:   ownerURL(address),
	})
}

func ownerURL(a *model.Address) string {
	if a == nil || a.CustomerID == nil {
		return "/customers"
	}
	return fmt.Sprintf("/customers/%d", *a.CustomerID)
}

func (s *Server) updateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page := addressFormPage{
		basePage: basePage{Title: "Edit Address"},
		Form:     parseAddressForm(r),
		Action:   fmt.Sprintf("/addresses/%d", id),
		Cancel:   "/customers",
	}
	if page.Errors = page.Form.Validate(); page.Errors != nil {
		s.render(w, http.StatusUnprocessableEntity, "address_form", page)
		return
	}
	address, err := s.api.UpdateAddress(r.Context(), id, page.Form.Input())
	if err != nil {
		page.SubmitError = submitError(err, "An error occurred while saving the address")
		s.render(w, http.StatusUnprocessableEntity, "address_form", page)
		return
	}
	http.Redirect(w, r, ownerURL(address), http.StatusSeeOther)
}

func (s *Server) deleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Look up the owner first so the redirect lands back on the customer.
	address, err := s.api.GetAddress(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.api.DeleteAddress(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, ownerURL(address), http.StatusSeeOther)
}
