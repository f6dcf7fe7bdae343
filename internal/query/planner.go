// Package query derives the canonical invoice listing query from navigation
// state and builds pagination controls for it.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"invoicedash/internal/model"
)

// Navigation parameter names.
const (
	ParamQuery = "query"
	ParamPage  = "page"
)

// Params is the ambient navigation state the planner reads. Empty fields mean
// the parameter was absent.
type Params struct {
	Query string
	Page  string
}

// ParamsFromValues reads the listing parameters out of URL query values.
func ParamsFromValues(v url.Values) Params {
	return Params{
		Query: v.Get(ParamQuery),
		Page:  v.Get(ParamPage),
	}
}

// Plan returns the canonical query for p. It never fails: a missing, malformed
// or out of range page falls back to the first page.
func Plan(p Params) model.QueryState {
	return model.QueryState{
		SearchTerm: p.Query,
		PageNumber: coercePage(p.Page),
	}
}

func coercePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
