package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
)

// --- Mock Repositories ---

type MockCustomerRepo struct {
	mu        sync.Mutex
	customers []model.Customer
	nextID    int
	lastQuery model.CustomerListQuery
}

func (m *MockCustomerRepo) List(ctx context.Context, q model.CustomerListQuery) ([]model.Customer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q

	var filtered []model.Customer
	for _, c := range m.customers {
		if q.Search != "" &&
			!strings.Contains(strings.ToLower(c.FirstName+"|"+c.LastName+"|"+c.PhoneNumber), strings.ToLower(q.Search)) {
			continue
		}
		filtered = append(filtered, c)
	}

	key := func(c model.Customer) string {
		switch q.Sort {
		case "first_name":
			return c.FirstName
		case "last_name":
			return c.LastName
		case "phone_number":
			return c.PhoneNumber
		}
		return ""
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if ka, kb := key(a), key(b); ka != kb {
			if q.Order == model.SortDesc {
				return ka > kb
			}
			return ka < kb
		}
		if q.Order == model.SortDesc {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})

	total := len(filtered)
	start, end := q.Offset(), q.Offset()+q.Limit
	if start > total {
		return []model.Customer{}, total, nil
	}
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, appErrors.NewCustomerNotFound(id)
}

func (m *MockCustomerRepo) phoneTaken(phone string, except int) bool {
	for _, c := range m.customers {
		if c.PhoneNumber == phone && c.ID != except {
			return true
		}
	}
	return false
}

func (m *MockCustomerRepo) Create(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phoneTaken(in.PhoneNumber, 0) {
		return nil, appErrors.NewDuplicatePhone()
	}
	m.nextID++
	c := model.Customer{ID: m.nextID, FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: in.PhoneNumber}
	m.customers = append(m.customers, c)
	return &c, nil
}

func (m *MockCustomerRepo) Update(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.ID != id {
			continue
		}
		if m.phoneTaken(in.PhoneNumber, id) {
			return nil, appErrors.NewDuplicatePhone()
		}
		m.customers[i] = model.Customer{ID: id, FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: in.PhoneNumber}
		updated := m.customers[i]
		return &updated, nil
	}
	return nil, appErrors.NewCustomerNotFound(id)
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return appErrors.NewCustomerNotFound(id)
}

type MockAddressRepo struct {
	addresses []model.Address
	nextID    int
	customers map[int]bool
}

func (m *MockAddressRepo) ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error) {
	out := []model.Address{}
	for _, a := range m.addresses {
		if a.CustomerID != nil && *a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAddressRepo) GetByID(ctx context.Context, id int) (*model.Address, error) {
	for _, a := range m.addresses {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, appErrors.NewAddressNotFound(id)
}

func (m *MockAddressRepo) Create(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	if !m.customers[customerID] {
		return nil, appErrors.NewCustomerNotFound(customerID)
	}
	m.nextID++
	owner := customerID
	a := model.Address{ID: m.nextID, CustomerID: &owner, AddressDetails: in.AddressDetails, City: in.City, State: in.State, PinCode: in.PinCode}
	m.addresses = append(m.addresses, a)
	return &a, nil
}

func (m *MockAddressRepo) Update(ctx context.Context, id int, in model.AddressInput) (*model.Address, error) {
	for i, a := range m.addresses {
		if a.ID == id {
			m.addresses[i].AddressDetails, m.addresses[i].City = in.AddressDetails, in.City
			m.addresses[i].State, m.addresses[i].PinCode = in.State, in.PinCode
			updated := m.addresses[i]
			return &updated, nil
		}
	}
	return nil, appErrors.NewAddressNotFound(id)
}

func (m *MockAddressRepo) Delete(ctx context.Context, id int) error {
	for i, a := range m.addresses {
		if a.ID == id {
			m.addresses = append(m.addresses[:i], m.addresses[i+1:]...)
			return nil
		}
	}
	return appErrors.NewAddressNotFound(id)
}

// recordingQueue captures published events synchronously.
type recordingQueue struct {
	mu     sync.Mutex
	events []model.Event
	topics []string
}

func (q *recordingQueue) Publish(ctx context.Context, topic string, ev model.Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.topics = append(q.topics, topic)
	q.events = append(q.events, ev)
	return nil
}

func (q *recordingQueue) Subscribe(topic string, handler queue.Handler) error { return nil }
func (q *recordingQueue) Close() error                                       { return nil }

func (q *recordingQueue) types() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.events))
	for i, ev := range q.events {
		out[i] = ev.Type
	}
	return out
}
