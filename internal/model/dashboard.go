package model

// Customer is an invoice recipient.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CardData holds the dashboard summary figures. Totals are in cents.
type CardData struct {
	NumberOfInvoices  int   `json:"number_of_invoices"`
	NumberOfCustomers int   `json:"number_of_customers"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
	TotalPendingCents int64 `json:"total_pending_cents"`
}
