package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Raymond9734/customer-records/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint failure
const uniqueViolation = "23505"

// CustomerRepository defines the interface for customer data access.
// Lookups return (nil, nil) when no record matches.
type CustomerRepository interface {
	Create(ctx context.Context, input *models.CreateCustomerInput) (*models.Customer, error)
	FindAll(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Update(ctx context.Context, id string, input *models.UpdateCustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

const customerColumns = `id, first_name, last_name, email, phone_number, address, city, state, country, created_at`

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer
func (r *customerRepository) Create(ctx context.Context, input *models.CreateCustomerInput) (*models.Customer, error) {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone_number, address, city, state, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + customerColumns

	row := r.db.QueryRowContext(
		ctx,
		query,
		uuid.New(),
		input.FirstName,
		input.LastName,
		input.Email,
		input.PhoneNumber,
		input.Address,
		input.City,
		input.State,
		input.Country,
	)

	customer, err := scanCustomer(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflictWithMsg("Email already exists")
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// FindAll retrieves customers newest first, optionally narrowed by a
// full-text search over names, email and location fields
func (r *customerRepository) FindAll(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []interface{}{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += ` WHERE search_vector @@ websearch_to_tsquery('english', $1)`
		args = append(args, search)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// FindByID retrieves a customer by ID
func (r *customerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// FindByEmail retrieves a customer by exact email
func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return customer, nil
}

// Update applies the fields present in input to an existing customer
func (r *customerRepository) Update(ctx context.Context, id string, input *models.UpdateCustomerInput) (*models.Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, customerNotFound(id)
	}

	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.FirstName != nil {
		add("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		add("last_name", *input.LastName)
	}
	if input.Email != nil {
		add("email", *input.Email)
	}
	for _, f := range []struct {
		column string
		value  models.OptionalString
	}{
		{"phone_number", input.PhoneNumber},
		{"address", input.Address},
		{"city", input.City},
		{"state", input.State},
		{"country", input.Country},
	} {
		if f.value.Set {
			add(f.column, f.value.Value)
		}
	}

	if len(sets) == 0 {
		customer, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, customerNotFound(id)
		}
		return customer, nil
	}

	args = append(args, uid)
	query := fmt.Sprintf(
		`UPDATE customers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), customerColumns,
	)

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customerNotFound(id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflictWithMsg("Email already exists")
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete removes a customer
func (r *customerRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return customerNotFound(id)
	}

	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return customerNotFound(id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	var phone, address, city, state, country sql.NullString

	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&phone,
		&address,
		&city,
		&state,
		&country,
		&customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	customer.PhoneNumber = nullString(phone)
	customer.Address = nullString(address)
	customer.City = nullString(city)
	customer.State = nullString(state)
	customer.Country = nullString(country)
	customer.CreatedAt = customer.CreatedAt.UTC()

	return customer, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func customerNotFound(id string) error {
	return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %s not found", id))
}
