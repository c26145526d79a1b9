package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

type AddressRepositoryInterface interface {
	ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error)
	GetByID(ctx context.Context, id int) (*model.Address, error)
	Create(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error)
	Update(ctx context.Context, id int, in model.AddressInput) (*model.Address, error)
	Delete(ctx context.Context, id int) error
}

type AddressRepository struct {
	DB *sqlx.DB
}

const addressColumns = `id, customer_id, address_details, city, state, pin_code`

// ListByCustomer returns the customer's addresses in insertion order.
// An unknown customer simply has no addresses.
func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error) {
	addresses := []model.Address{}
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE customer_id = $1 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &addresses, query, customerID); err != nil {
		return nil, fmt.Errorf("list addresses for customer %d: %w", customerID, err)
	}
	return addresses, nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id int) (*model.Address, error) {
	var a model.Address
	err := r.DB.GetContext(ctx, &a, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewAddressNotFound(id)
		}
		return nil, fmt.Errorf("get address %d: %w", id, err)
	}
	return &a, nil
}

func (r *AddressRepository) Create(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	query := `
        INSERT INTO addresses (customer_id, address_details, city, state, pin_code)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + addressColumns
	var a model.Address
	err := r.DB.GetContext(ctx, &a, query, customerID, in.AddressDetails, in.City, in.State, in.PinCode)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return nil, appErrors.NewCustomerNotFound(customerID)
		}
		return nil, fmt.Errorf("insert address: %w", err)
	}
	return &a, nil
}

func (r *AddressRepository) Update(ctx context.Context, id int, in model.AddressInput) (*model.Address, error) {
	query := `
        UPDATE addresses
        SET address_details = $1, city = $2, state = $3, pin_code = $4
        WHERE id = $5
        RETURNING ` + addressColumns
	var a model.Address
	if err := r.DB.GetContext(ctx, &a, query, in.AddressDetails, in.City, in.State, in.PinCode, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewAddressNotFound(id)
		}
		return nil, fmt.Errorf("update address %d: %w", id, err)
	}
	return &a, nil
}

func (r *AddressRepository) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete address %d: %w", id, err)
	}
	if rows == 0 {
		return appErrors.NewAddressNotFound(id)
	}
	return nil
}

var _ AddressRepositoryInterface = (*AddressRepository)(nil)
