package repository

import (
	"context"

	"invoicedash/internal/model"
)

// InvoiceRepository is the data gateway for invoices. It is the only layer that
// talks to storage; every statement uses bound parameters.
type InvoiceRepository interface {
	// CountPages returns ceil(matching rows / page size) for the search term, 0 when nothing matches.
	CountPages(ctx context.Context, term string) (int, error)

	// FetchPage returns one page of matching rows ordered by date (newest first),
	// then by insertion order. A page past the end yields an empty slice.
	FetchPage(ctx context.Context, term string, page int) ([]model.InvoiceRow, error)

	// FindByID returns a single invoice or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Invoice, error)

	// Insert stores a new invoice dated today (UTC) and returns its generated ID.
	Insert(ctx context.Context, inv model.Invoice) (string, error)

	// Update replaces customer, amount and status of an existing invoice.
	// It returns ErrNotFound if the ID does not exist.
	Update(ctx context.Context, id string, inv model.Invoice) error

	// Delete removes an invoice by ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Latest returns the most recent invoices for the dashboard.
	Latest(ctx context.Context, limit int) ([]model.InvoiceRow, error)

	// Summary returns the dashboard card figures.
	Summary(ctx context.Context) (*model.CardData, error)
}

// CustomerRepository reads customers for the invoice form.
type CustomerRepository interface {
	// List returns all customers ordered by name.
	List(ctx context.Context) ([]model.Customer, error)
}
