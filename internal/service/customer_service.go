// internal/service/customer_service.go
package service

import (
	"context"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Events       *EventPublisher

	// DefaultPageSize and MaxPageSize fall back to 10 and 100 when zero.
	DefaultPageSize int
	MaxPageSize     int
}

// ListCustomers fetches one page of customers matching search, ordered by an
// allow-listed column. Unknown sort fields silently become id.
func (s *CustomerService) ListCustomers(ctx context.Context, search, sortField, sortDirection string, page, pageSize int) ([]model.Customer, model.Pagination, error) {
	defSize, maxSize := s.DefaultPageSize, s.MaxPageSize
	if defSize < 1 {
		defSize = defaultPageSize
	}
	if maxSize < 1 {
		maxSize = maxPageSize
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	q := model.CustomerListQuery{
		Search: search,
		Sort:   model.SortField(sortField),
		Order:  model.SortDirection(sortDirection),
		Page:   page,
		Limit:  pageSize,
	}

	customers, total, err := s.CustomerRepo.List(ctx, q)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return customers, model.NewPagination(page, pageSize, total), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	return s.CustomerRepo.GetByID(ctx, id)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	c, err := s.CustomerRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Events.publish(ctx, model.EventCustomerCreated, c.ID, &c.ID)
	return c, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	c, err := s.CustomerRepo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.Events.publish(ctx, model.EventCustomerUpdated, c.ID, &c.ID)
	return c, nil
}

// DeleteCustomer removes the customer and, through the cascade, its addresses.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Events.publish(ctx, model.EventCustomerDeleted, id, &id)
	return nil
}
