package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date format used for invoice dates.
const DateLayout = "2006-01-02"

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// InvoiceDraft is the typed form input before it is converted to minor units.
// It never reaches storage in this shape.
type InvoiceDraft struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"-"`
	Status     string          `form:"status" validate:"oneof=pending paid"`
}

// Invoice is the persisted invoice record. Amounts are integer cents.
type Invoice struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customer_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      InvoiceStatus `json:"status"`
	Date        time.Time     `json:"-"`
}

// DateString returns the invoice date as YYYY-MM-DD.
func (i Invoice) DateString() string {
	if i.Date.IsZero() {
		return ""
	}
	return i.Date.Format(DateLayout)
}

// InvoiceRow is a listing row: an invoice joined with its customer.
type InvoiceRow struct {
	Invoice
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}
