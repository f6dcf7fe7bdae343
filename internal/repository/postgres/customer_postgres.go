package postgres

import (
	"context"
	"database/sql"

	"invoicedash/internal/model"
	"invoicedash/internal/repository"
)

// CustomerPostgres is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerPostgres struct {
	db *sql.DB
}

// NewCustomerPostgres creates a new CustomerPostgres repository.
func NewCustomerPostgres(db *sql.DB) *CustomerPostgres {
	return &CustomerPostgres{db: db}
}

var _ repository.CustomerRepository = (*CustomerPostgres)(nil)

// List returns all customers ordered by name.
func (r *CustomerPostgres) List(ctx context.Context) ([]model.Customer, error) {
	const q = `
		SELECT id, name, email, image_url
		FROM customers
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, repository.StorageError(err, "list customers")
	}
	defer rows.Close()

	items := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL); err != nil {
			return nil, repository.StorageError(err, "scan customer")
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.StorageError(err, "read customers")
	}
	return items, nil
}
