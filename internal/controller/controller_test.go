package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/service"
)

type response struct {
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      string            `json:"error"`
}

func newTestRouter(customers *MockCustomerRepo, addresses *MockAddressRepo) http.Handler {
	cc := &controller.CustomerController{CustomerService: &service.CustomerService{CustomerRepo: customers}}
	ac := &controller.AddressController{AddressService: &service.AddressService{AddressRepo: addresses}}

	r := chi.NewRouter()
	r.Get("/customers", cc.ListCustomers)
	r.Post("/customers", cc.CreateCustomer)
	r.Get("/customers/{id}", cc.GetCustomer)
	r.Put("/customers/{id}", cc.UpdateCustomer)
	r.Delete("/customers/{id}", cc.DeleteCustomer)
	r.Get("/customers/{id}/addresses", ac.ListAddresses)
	r.Post("/customers/{id}/addresses", ac.CreateAddress)
	r.Get("/addresses/{id}", ac.GetAddress)
	r.Put("/addresses/{id}", ac.UpdateAddress)
	r.Delete("/addresses/{id}", ac.DeleteAddress)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, response) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var res response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w.Code, res
}

func seedCustomers(n int) *MockCustomerRepo {
	seed := make([]model.Customer, 0, n)
	for i := 1; i <= n; i++ {
		seed = append(seed, model.Customer{ID: i, FirstName: "First", LastName: "Last", PhoneNumber: fmt.Sprintf("98000000%02d", i)})
	}
	return newMockCustomerRepo(seed...)
}

func TestListCustomersHandler(t *testing.T) {
	repo := seedCustomers(15)
	h := newTestRouter(repo, newMockAddressRepo())

	code, res := do(t, h, http.MethodGet, "/customers?page=2&limit=10&sort=last_name&order=desc&search=Las", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", res.Message)

	var customers []model.Customer
	require.NoError(t, json.Unmarshal(res.Data, &customers))
	assert.Len(t, customers, 5)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, model.Pagination{CurrentPage: 2, TotalPages: 2, TotalCount: 15, HasPrev: true, Limit: 10}, *res.Pagination)
	assert.Equal(t, model.CustomerListQuery{Search: "Las", Sort: "last_name", Order: model.SortDesc, Page: 2, Limit: 10}, repo.lastQuery)
}

func TestListCustomersHandlerDefaults(t *testing.T) {
	repo := seedCustomers(0)
	h := newTestRouter(repo, newMockAddressRepo())

	code, res := do(t, h, http.MethodGet, "/customers?page=abc&limit=-3&sort=password", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(res.Data))
	assert.Equal(t, model.CustomerListQuery{Sort: "id", Order: model.SortAsc, Page: 1, Limit: 10}, repo.lastQuery)
	assert.Equal(t, 0, res.Pagination.TotalPages)
}

func TestStoreFailureIsGeneric(t *testing.T) {
	repo := seedCustomers(1)
	repo.failWith = errConnRefused
	h := newTestRouter(repo, newMockAddressRepo())

	code, res := do(t, h, http.MethodGet, "/customers", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", res.Error)
	assert.NotContains(t, res.Error, "5432")
}

func TestCustomerCRUDHandlers(t *testing.T) {
	h := newTestRouter(seedCustomers(0), newMockAddressRepo())

	code, res := do(t, h, http.MethodPost, "/customers", `{"first_name":"Asha","last_name":"Rao","phone_number":"9876543210"}`)
	require.Equal(t, http.StatusCreated, code)
	var created model.Customer
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, 1, created.ID)

	code, res = do(t, h, http.MethodPost, "/customers", `{"first_name":"Dup","last_name":"Rao","phone_number":"9876543210"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Phone number already exists", res.Error)

	code, res = do(t, h, http.MethodPost, "/customers", `{"first_name":"Asha"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "All fields are required", res.Error)

	code, _ = do(t, h, http.MethodPost, "/customers", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = do(t, h, http.MethodPut, "/customers/1", `{"first_name":"Asha","last_name":"Iyer","phone_number":"9876543210"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1,"first_name":"Asha","last_name":"Iyer","phone_number":"9876543210"}`, string(res.Data))

	code, res = do(t, h, http.MethodGet, "/customers/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"Iyer"`)

	code, res = do(t, h, http.MethodDelete, "/customers/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1}`, string(res.Data))

	code, res = do(t, h, http.MethodGet, "/customers/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Customer not found", res.Error)

	code, _ = do(t, h, http.MethodPut, "/customers/7", `{"first_name":"A","last_name":"B","phone_number":"1234567890"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMalformedIDs(t *testing.T) {
	h := newTestRouter(seedCustomers(1), newMockAddressRepo(1))

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/customers/abc"},
		{http.MethodDelete, "/customers/0"},
		{http.MethodGet, "/customers/x/addresses"},
		{http.MethodGet, "/addresses/-1"},
		{http.MethodDelete, "/addresses/1.5"},
	} {
		code, res := do(t, h, tc.method, tc.target, "")
		assert.Equal(t, http.StatusBadRequest, code, tc.target)
		assert.NotEmpty(t, res.Error, tc.target)
	}
}

func TestAddressHandlers(t *testing.T) {
	h := newTestRouter(seedCustomers(1), newMockAddressRepo(1))

	body := `{"address_details":"12 Main St","city":"Pune","state":"MH","pin_code":"411001"}`
	code, res := do(t, h, http.MethodPost, "/customers/1/addresses", body)
	require.Equal(t, http.StatusCreated, code)
	var created model.Address
	require.NoError(t, json.Unmarshal(res.Data, &created))
	require.NotNil(t, created.CustomerID)
	assert.Equal(t, 1, *created.CustomerID)

	code, res = do(t, h, http.MethodPost, "/customers/9/addresses", body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Customer not found", res.Error)

	code, res = do(t, h, http.MethodGet, "/customers/1/addresses", "")
	require.Equal(t, http.StatusOK, code)
	var list []model.Address
	require.NoError(t, json.Unmarshal(res.Data, &list))
	assert.Len(t, list, 1)

	code, res = do(t, h, http.MethodGet, "/customers/9/addresses", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(res.Data))

	code, _ = do(t, h, http.MethodPut, fmt.Sprintf("/addresses/%d", created.ID), `{"address_details":"x","city":"y","state":"z"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = do(t, h, http.MethodPut, fmt.Sprintf("/addresses/%d", created.ID), `{"address_details":"1 New St","city":"Delhi","state":"DL","pin_code":"110001"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"Delhi"`)

	code, _ = do(t, h, http.MethodGet, fmt.Sprintf("/addresses/%d", created.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodDelete, fmt.Sprintf("/addresses/%d", created.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, res = do(t, h, http.MethodDelete, fmt.Sprintf("/addresses/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Address not found", res.Error)
}
