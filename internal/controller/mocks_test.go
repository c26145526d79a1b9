package controller_test

import (
	"context"
	"errors"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

// --- Mock Repositories ---

type MockCustomerRepo struct {
	customers map[int]model.Customer
	nextID    int
	lastQuery model.CustomerListQuery
	failWith  error
}

func newMockCustomerRepo(seed ...model.Customer) *MockCustomerRepo {
	m := &MockCustomerRepo{customers: map[int]model.Customer{}}
	for _, c := range seed {
		m.customers[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *MockCustomerRepo) List(ctx context.Context, q model.CustomerListQuery) ([]model.Customer, int, error) {
	m.lastQuery = q
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	out := []model.Customer{}
	for id := 1; id <= m.nextID; id++ {
		if c, ok := m.customers[id]; ok {
			out = append(out, c)
		}
	}
	total := len(out)
	start, end := q.Offset(), q.Offset()+q.Limit
	if start > total {
		return []model.Customer{}, total, nil
	}
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.customers[id]
	if !ok {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return &c, nil
}

func (m *MockCustomerRepo) Create(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.PhoneNumber == in.PhoneNumber {
			return nil, appErrors.NewDuplicatePhone()
		}
	}
	m.nextID++
	c := model.Customer{ID: m.nextID, FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: in.PhoneNumber}
	m.customers[c.ID] = c
	return &c, nil
}

func (m *MockCustomerRepo) Update(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	if _, ok := m.customers[id]; !ok {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	c := model.Customer{ID: id, FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: in.PhoneNumber}
	m.customers[id] = c
	return &c, nil
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := m.customers[id]; !ok {
		return appErrors.NewCustomerNotFound(id)
	}
	delete(m.customers, id)
	return nil
}

type MockAddressRepo struct {
	addresses map[int]model.Address
	nextID    int
	known     map[int]bool
}

func newMockAddressRepo(customerIDs ...int) *MockAddressRepo {
	m := &MockAddressRepo{addresses: map[int]model.Address{}, known: map[int]bool{}}
	for _, id := range customerIDs {
		m.known[id] = true
	}
	return m
}

func (m *MockAddressRepo) ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error) {
	out := []model.Address{}
	for id := 1; id <= m.nextID; id++ {
		if a, ok := m.addresses[id]; ok && *a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAddressRepo) GetByID(ctx context.Context, id int) (*model.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, appErrors.NewAddressNotFound(id)
	}
	return &a, nil
}

func (m *MockAddressRepo) Create(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	if !m.known[customerID] {
		return nil, appErrors.NewCustomerNotFound(customerID)
	}
	m.nextID++
	owner := customerID
	a := model.Address{ID: m.nextID, CustomerID: &owner, AddressDetails: in.AddressDetails, City: in.City, State: in.State, PinCode: in.PinCode}
	m.addresses[a.ID] = a
	return &a, nil
}

func (m *MockAddressRepo) Update(ctx context.Context, id int, in model.AddressInput) (*model.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, appErrors.NewAddressNotFound(id)
	}
	a.AddressDetails, a.City, a.State, a.PinCode = in.AddressDetails, in.City, in.State, in.PinCode
	m.addresses[id] = a
	return &a, nil
}

func (m *MockAddressRepo) Delete(ctx context.Context, id int) error {
	if _, ok := m.addresses[id]; !ok {
		return appErrors.NewAddressNotFound(id)
	}
	delete(m.addresses, id)
	return nil
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connection refused")
