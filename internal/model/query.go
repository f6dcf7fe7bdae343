package model

import "strconv"

// QueryState is the canonical listing query derived from navigation state.
// It is never persisted.
type QueryState struct {
	SearchTerm string `json:"query"`
	PageNumber int    `json:"page"`
}

// WithSearch returns the state for a new search term. Any change of the
// term goes back to the first page.
func (q QueryState) WithSearch(term string) QueryState {
	if term == q.SearchTerm {
		return q
	}
	return QueryState{SearchTerm: term, PageNumber: 1}
}

// Key identifies the query for cache lookups and response ordering.
func (q QueryState) Key() string {
	return q.SearchTerm + "\x00" + strconv.Itoa(q.PageNumber)
}

// PageResult is one rendered page of the invoice listing.
type PageResult struct {
	TotalPages int          `json:"totalPages"`
	Invoices   []InvoiceRow `json:"invoices"`
}

// ValidationFailure describes why a single form field was rejected.
type ValidationFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
