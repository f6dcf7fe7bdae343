package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{name: "no pages", current: 1, total: 0, want: []string{}},
		{name: "single page", current: 1, total: 1, want: []string{"1"}},
		{name: "seven pages listed in full", current: 4, total: 7, want: []string{"1", "2", "3", "4", "5", "6", "7"}},
		{name: "near the start", current: 2, total: 10, want: []string{"1", "2", "3", "...", "9", "10"}},
		{name: "near the end", current: 9, total: 10, want: []string{"1", "2", "...", "8", "9", "10"}},
		{name: "in the middle", current: 5, total: 10, want: []string{"1", "...", "4", "5", "6", "...", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pagination(tt.current, tt.total))
		})
	}
}

func TestPageURL(t *testing.T) {
	current := url.Values{"query": {"lee"}, "page": {"1"}}

	got := PageURL("/dashboard/invoices", current, 3)

	assert.Equal(t, "/dashboard/invoices?page=3&query=lee", got)
	assert.Equal(t, "1", current.Get("page"), "current params must not be modified")
}
