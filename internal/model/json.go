package model

import (
	"encoding/json"
	"time"
)

// invoiceJSON mirrors Invoice with the date rendered as a calendar date.
type invoiceJSON struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customer_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      InvoiceStatus `json:"status"`
	Date        string        `json:"date"`
}

func (i Invoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(invoiceJSON{
		ID:          i.ID,
		CustomerID:  i.CustomerID,
		AmountCents: i.AmountCents,
		Status:      i.Status,
		Date:        i.DateString(),
	})
}

func (r InvoiceRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		invoiceJSON
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"image_url"`
	}{
		invoiceJSON: invoiceJSON{
			ID:          r.ID,
			CustomerID:  r.CustomerID,
			AmountCents: r.AmountCents,
			Status:      r.Status,
			Date:        r.DateString(),
		},
		Name:     r.Name,
		Email:    r.Email,
		ImageURL: r.ImageURL,
	})
}

func (j invoiceJSON) invoice() (Invoice, error) {
	inv := Invoice{ID: j.ID, CustomerID: j.CustomerID, AmountCents: j.AmountCents, Status: j.Status}
	if j.Date != "" {
		d, err := time.Parse(DateLayout, j.Date)
		if err != nil {
			return Invoice{}, err
		}
		inv.Date = d
	}
	return inv, nil
}

func (i *Invoice) UnmarshalJSON(b []byte) error {
	var j invoiceJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	inv, err := j.invoice()
	if err != nil {
		return err
	}
	*i = inv
	return nil
}

func (r *InvoiceRow) UnmarshalJSON(b []byte) error {
	var j struct {
		invoiceJSON
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"image_url"`
	}
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	inv, err := j.invoice()
	if err != nil {
		return err
	}
	*r = InvoiceRow{Invoice: inv, Name: j.Name, Email: j.Email, ImageURL: j.ImageURL}
	return nil
}
