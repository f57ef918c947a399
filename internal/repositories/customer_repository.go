package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fraud_report_backend/internal/models"
	"fraud_report_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.Error
)

const (
	customerColumns = `id, first_name, last_name, phone_number, account_number, created_by, amount, created_at`

	insertCustomerQuery = `INSERT INTO customers (first_name, last_name, phone_number, account_number, created_by, amount)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`

	selectCustomersQuery = `SELECT ` + customerColumns + ` FROM customers`

	searchCustomersFilter = ` WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR account_number ILIKE $1)`

	deleteCustomerQuery = `DELETE FROM customers WHERE id = $1`

	pingCustomersQuery = `SELECT id FROM customers LIMIT 1`
)

// CustomerRepository defines the database operations on the customers table.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (uuid.UUID, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, executor SQLExecutor, id uuid.UUID) error
	PingCustomers(ctx context.Context) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// CreateCustomer inserts a record and fills in the store-generated ID and creation time.
func (r *customerRepository) CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (uuid.UUID, error) {
	err := executor.QueryRowContext(ctx, insertCustomerQuery,
		customer.FirstName, customer.LastName, customer.PhoneNumber,
		customer.AccountNumber, customer.CreatedBy, customer.Amount,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return uuid.Nil, fmt.Errorf("%w: creating customer: %s (code: %s, constraint: %s)", ErrDatabaseError, pqErr.Message, pqErr.Code.Name(), pqErr.Constraint)
		}
		return uuid.Nil, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

// SearchCustomers returns records whose first name, last name or account number contains query,
// case-insensitively, newest first. A blank query returns every record. limit <= 0 means no limit.
func (r *customerRepository) SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectCustomersQuery)

	var args []interface{}
	if term := strings.TrimSpace(query); term != "" {
		queryBuilder.WriteString(searchCustomersFilter)
		args = append(args, utils.ContainsPattern(term))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if limit > 0 {
		args = append(args, limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, *customer)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, nil
}

// DeleteCustomer removes a record. Deleting an ID that does not exist is not an error.
func (r *customerRepository) DeleteCustomer(ctx context.Context, executor SQLExecutor, id uuid.UUID) error {
	if _, err := executor.ExecContext(ctx, deleteCustomerQuery, id); err != nil {
		return fmt.Errorf("%w: deleting customer ID %s: %v", ErrDatabaseError, id, err)
	}
	return nil
}

// PingCustomers issues the cheapest possible read against the table.
func (r *customerRepository) PingCustomers(ctx context.Context) error {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, pingCustomersQuery).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: pinging customers: %v", ErrDatabaseError, err)
	}
	return nil
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var customer models.Customer
	var phone, note sql.NullString
	if err := s.Scan(
		&customer.ID, &customer.FirstName, &customer.LastName, &phone,
		&customer.AccountNumber, &note, &customer.Amount, &customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		customer.PhoneNumber = &phone.String
	}
	if note.Valid {
		customer.CreatedBy = &note.String
	}
	return &customer, nil
}
