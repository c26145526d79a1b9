// internal/service/address_service.go
package service

import (
	"context"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
)

type AddressService struct {
	AddressRepo repository.AddressRepositoryInterface
	Events      *EventPublisher
}

func (s *AddressService) ListAddresses(ctx context.Context, customerID int) ([]model.Address, error) {
	return s.AddressRepo.ListByCustomer(ctx, customerID)
}

func (s *AddressService) GetAddress(ctx context.Context, id int) (*model.Address, error) {
	return s.AddressRepo.GetByID(ctx, id)
}

func (s *AddressService) CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	a, err := s.AddressRepo.Create(ctx, customerID, in)
	if err != nil {
		return nil, err
	}
	s.Events.publish(ctx, model.EventAddressCreated, a.ID, a.CustomerID)
	return a, nil
}

func (s *AddressService) UpdateAddress(ctx context.Context, id int, in model.AddressInput) (*model.Address, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	a, err := s.AddressRepo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.Events.publish(ctx, model.EventAddressUpdated, a.ID, a.CustomerID)
	return a, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, id int) error {
	if err := s.AddressRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Events.publish(ctx, model.EventAddressDeleted, id, nil)
	return nil
}
