package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"invoicedash/internal/client"
	"invoicedash/internal/model"
	"invoicedash/internal/query"
)

func formatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func renderPage(w io.Writer, res *client.ListResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tEMAIL\tAMOUNT\tSTATUS\tDATE")
	for _, r := range res.Invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, formatCents(r.AmountCents), r.Status, r.DateString())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.TotalPages > 0 {
		_, err := fmt.Fprintf(w, "page %s of %d\n", pageStrip(res.Page, res.TotalPages), res.TotalPages)
		return err
	}
	_, err := fmt.Fprintln(w, "no invoices")
	return err
}

// pageStrip renders the pagination labels with the current page bracketed.
func pageStrip(current, total int) string {
	labels := lo.Map(query.Pagination(current, total), func(label string, _ int) string {
		if label == fmt.Sprint(current) {
			return "[" + label + "]"
		}
		return label
	})
	return strings.Join(labels, " ")
}

func renderFailures(w io.Writer, failures []model.ValidationFailure) {
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
	}
}
