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

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	List(ctx context.Context, q model.CustomerListQuery) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	Create(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	Update(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error)
	Delete(ctx context.Context, id int) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sqlx.DB
}

const customerColumns = `id, first_name, last_name, phone_number`

// List returns one page of customers and the total number of matching rows.
// Both reads share a read-only repeatable-read transaction so the count and
// the page see the same snapshot.
func (r *CustomerRepository) List(ctx context.Context, q model.CustomerListQuery) ([]model.Customer, int, error) {
	where := ""
	args := []interface{}{}
	if q.Search != "" {
		where = ` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone_number ILIKE $1`
		args = append(args, containsPattern(q.Search))
	}

	field := model.SortField(q.Sort)
	dir := model.SortDirection(q.Order)
	orderBy := fmt.Sprintf("%s %s", field, dir)
	if field != model.DefaultSortField {
		orderBy += fmt.Sprintf(", id %s", dir)
	}

	tx, err := r.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin list: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM customers`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		customerColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	customers := []model.Customer{}
	if err := tx.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit list: %w", err)
	}
	return customers, total, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	query := `
        INSERT INTO customers (first_name, last_name, phone_number)
        VALUES ($1, $2, $3)
        RETURNING ` + customerColumns
	var c model.Customer
	if err := r.DB.GetContext(ctx, &c, query, in.FirstName, in.LastName, in.PhoneNumber); err != nil {
		if pqCode(err) == uniqueViolation {
			return nil, appErrors.NewDuplicatePhone()
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &c, nil
}

// Update overwrites all writable fields. No returned row means no such id.
func (r *CustomerRepository) Update(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	query := `
        UPDATE customers
        SET first_name = $1, last_name = $2, phone_number = $3
        WHERE id = $4
        RETURNING ` + customerColumns
	var c model.Customer
	if err := r.DB.GetContext(ctx, &c, query, in.FirstName, in.LastName, in.PhoneNumber, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.NewCustomerNotFound(id)
		case pqCode(err) == uniqueViolation:
			return nil, appErrors.NewDuplicatePhone()
		}
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return &c, nil
}

// Delete removes the customer; the foreign key cascades to its addresses.
func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if rows == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
