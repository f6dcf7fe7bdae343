package postgres

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"invoicedash/internal/model"
	"invoicedash/internal/repository"
)

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 6

var (
	newID = uuid.NewString
	now   = time.Now
)

// InvoicePostgres is a PostgreSQL implementation of repository.InvoiceRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type InvoicePostgres struct {
	db       *sql.DB
	pageSize int
}

// NewInvoicePostgres creates a new InvoicePostgres gateway with a fixed page size.
func NewInvoicePostgres(db *sql.DB, pageSize int) *InvoicePostgres {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &InvoicePostgres{db: db, pageSize: pageSize}
}

var _ repository.InvoiceRepository = (*InvoicePostgres)(nil)

// PageSize returns the number of rows per listing page.
func (r *InvoicePostgres) PageSize() int {
	return r.pageSize
}

const rowColumns = `
		invoices.id,
		invoices.customer_id,
		invoices.amount,
		invoices.status,
		invoices.date,
		customers.name,
		customers.email,
		customers.image_url`

const searchFrom = `
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE
			customers.name ILIKE $1 OR
			customers.email ILIKE $1 OR
			invoices.amount::text ILIKE $1 OR
			invoices.date::text ILIKE $1 OR
			invoices.status ILIKE $1`

// CountPages returns the number of listing pages matching term.
func (r *InvoicePostgres) CountPages(ctx context.Context, term string) (int, error) {
	const q = `SELECT COUNT(*)` + searchFrom

	var total int
	if err := r.db.QueryRowContext(ctx, q, likePattern(term)).Scan(&total); err != nil {
		return 0, repository.StorageError(err, "count invoices")
	}
	return (total + r.pageSize - 1) / r.pageSize, nil
}

// FetchPage returns the rows of one listing page.
func (r *InvoicePostgres) FetchPage(ctx context.Context, term string, page int) ([]model.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	// Offsets that do not fit in an int are necessarily past the last row.
	if page-1 > (math.MaxInt-r.pageSize)/r.pageSize {
		return []model.InvoiceRow{}, nil
	}
	offset := (page - 1) * r.pageSize

	const q = `SELECT` + rowColumns + searchFrom + `
		ORDER BY invoices.date DESC, invoices.seq ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, q, likePattern(term), r.pageSize, offset)
	if err != nil {
		return nil, repository.StorageError(err, "fetch invoices")
	}
	return scanRows(rows)
}

// FindByID fetches a single invoice by its ID.
func (r *InvoicePostgres) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `
		SELECT id, customer_id, amount, status, date
		FROM invoices
		WHERE id = $1
	`
	var inv model.Invoice
	var status string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&inv.ID,
		&inv.CustomerID,
		&inv.AmountCents,
		&status,
		&inv.Date,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(repository.ErrNotFound, "invoice %s", id)
		}
		return nil, repository.StorageError(err, "find invoice")
	}
	inv.Status = model.InvoiceStatus(status)
	return &inv, nil
}

// Insert stores a new invoice and returns the generated ID.
func (r *InvoicePostgres) Insert(ctx context.Context, inv model.Invoice) (string, error) {
	const q = `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, q,
		newID(),
		inv.CustomerID,
		inv.AmountCents,
		string(inv.Status),
		today(),
	).Scan(&id); err != nil {
		return "", repository.StorageError(err, "insert invoice")
	}
	return id, nil
}

// Update rewrites customer, amount and status of one invoice in a single statement.
func (r *InvoicePostgres) Update(ctx context.Context, id string, inv model.Invoice) error {
	const q = `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, q, inv.CustomerID, inv.AmountCents, string(inv.Status), id)
	if err != nil {
		return repository.StorageError(err, "update invoice")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.StorageError(err, "update invoice")
	}
	if n == 0 {
		return errors.Wrapf(repository.ErrNotFound, "invoice %s", id)
	}
	return nil
}

// Delete removes an invoice by ID. It does not return an error if the row does not exist.
func (r *InvoicePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM invoices WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return repository.StorageError(err, "delete invoice")
	}
	return nil
}

// Latest returns the newest invoices, most recently inserted first within a day.
func (r *InvoicePostgres) Latest(ctx context.Context, limit int) ([]model.InvoiceRow, error) {
	const q = `SELECT` + rowColumns + `
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		ORDER BY invoices.date DESC, invoices.seq DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, repository.StorageError(err, "latest invoices")
	}
	return scanRows(rows)
}

// Summary computes the dashboard card figures in one round trip.
func (r *InvoicePostgres) Summary(ctx context.Context) (*model.CardData, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM invoices),
			(SELECT COUNT(*) FROM customers),
			COALESCE((SELECT SUM(amount) FROM invoices WHERE status = $1), 0),
			COALESCE((SELECT SUM(amount) FROM invoices WHERE status = $2), 0)
	`
	var out model.CardData
	if err := r.db.QueryRowContext(ctx, q, string(model.StatusPaid), string(model.StatusPending)).Scan(
		&out.NumberOfInvoices,
		&out.NumberOfCustomers,
		&out.TotalPaidCents,
		&out.TotalPendingCents,
	); err != nil {
		return nil, repository.StorageError(err, "invoice summary")
	}
	return &out, nil
}

func scanRows(rows *sql.Rows) ([]model.InvoiceRow, error) {
	defer rows.Close()

	items := make([]model.InvoiceRow, 0)
	for rows.Next() {
		var row model.InvoiceRow
		var status string
		if err := rows.Scan(
			&row.ID,
			&row.CustomerID,
			&row.AmountCents,
			&status,
			&row.Date,
			&row.Name,
			&row.Email,
			&row.ImageURL,
		); err != nil {
			return nil, repository.StorageError(err, "scan invoice")
		}
		row.Status = model.InvoiceStatus(status)
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.StorageError(err, "read invoices")
	}
	return items, nil
}

// likePattern turns a search term into a case-insensitive substring pattern,
// matching LIKE wildcards in the term literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func today() time.Time {
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
