package handler

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"invoicedash/internal/model"
	"invoicedash/internal/query"
	"invoicedash/internal/service"
)

type pageLink struct {
	Label   string `json:"label"`
	Href    string `json:"href,omitempty"`
	Current bool   `json:"current,omitempty"`
}

type listResponse struct {
	Query      string             `json:"query"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Invoices   []model.InvoiceRow `json:"invoices"`
	Pagination []pageLink         `json:"pagination"`
}

type pagesResponse struct {
	TotalPages int `json:"totalPages"`
}

type mutationResponse struct {
	ID       string                `json:"id,omitempty"`
	State    service.MutationState `json:"state"`
	Redirect string                `json:"redirect,omitempty"`
}

func planQuery(c *fiber.Ctx) (model.QueryState, url.Values) {
	values, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	return query.Plan(query.ParamsFromValues(values)), values
}

func paginationLinks(path string, values url.Values, current, total int) []pageLink {
	return lo.Map(query.Pagination(current, total), func(label string, _ int) pageLink {
		if label == query.Ellipsis {
			return pageLink{Label: label}
		}
		n := lo.Must(strconv.Atoi(label))
		return pageLink{Label: label, Href: query.PageURL(path, values, n), Current: n == current}
	})
}

// ListInvoices returns one page of the filtered listing.
//
// @Summary List invoices
// @Description Case-insensitive search over customer name, email, amount, date and status. Invalid pages fall back to 1.
// @Tags Invoices
// @Produce json
// @Param query query string false "Search term"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Failure 500 {object} errorPayload
// @Router /invoices [get]
func ListInvoices(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, values := planQuery(c)
		res, err := svc.ListView(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(listResponse{
			Query:      q.SearchTerm,
			Page:       q.PageNumber,
			TotalPages: res.TotalPages,
			Invoices:   res.Invoices,
			Pagination: paginationLinks(c.Path(), values, q.PageNumber, res.TotalPages),
		})
	}
}

// CountInvoicePages returns the number of listing pages for a search term.
//
// @Summary Count invoice pages
// @Tags Invoices
// @Produce json
// @Param query query string false "Search term"
// @Success 200 {object} pagesResponse
// @Failure 500 {object} errorPayload
// @Router /invoices/pages [get]
func CountInvoicePages(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, _ := planQuery(c)
		n, err := svc.PageCount(c.UserContext(), q.SearchTerm)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(pagesResponse{TotalPages: n})
	}
}

// GetInvoice
//
// @Summary Get an invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /invoices/{id} [get]
func GetInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := invoiceID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		inv, err := svc.GetInvoice(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(inv)
	}
}

// CreateInvoice
//
// @Summary Create an invoice
// @Description Accepts JSON or form fields customerId, amount (dollars) and status. The invoice is dated today.
// @Tags Invoices
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Success 201 {object} mutationResponse
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /invoices [post]
func CreateInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := invoiceInput(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.CreateInvoice(c.UserContext(), raw)
		if err != nil {
			return writeServiceError(c, err)
		}
		if res.State == service.StateRejected {
			return writeValidationError(c, res.Failures)
		}
		c.Location("/invoices/" + res.InvoiceID)
		return c.Status(fiber.StatusCreated).JSON(mutationResponse{ID: res.InvoiceID, State: res.State, Redirect: res.Redirect})
	}
}

// UpdateInvoice
//
// @Summary Update an invoice
// @Tags Invoices
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /invoices/{id} [put]
func UpdateInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := invoiceID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		raw, err := invoiceInput(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.UpdateInvoice(c.UserContext(), id, raw)
		if err != nil {
			return writeServiceError(c, err)
		}
		if res.State == service.StateRejected {
			return writeValidationError(c, res.Failures)
		}
		return c.JSON(mutationResponse{ID: id, State: res.State, Redirect: res.Redirect})
	}
}

// DeleteInvoice
//
// @Summary Delete an invoice
// @Description Deleting an invoice that does not exist succeeds.
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /invoices/{id} [delete]
func DeleteInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := invoiceID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if _, err := svc.DeleteInvoice(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ExportInvoices uploads the search result as CSV.
//
// @Summary Export invoices to CSV
// @Tags Invoices
// @Produce json
// @Param query query string false "Search term"
// @Success 200 {object} service.ExportResult
// @Failure 500 {object} errorPayload
// @Failure 501 {object} errorPayload
// @Router /invoices/export [post]
func ExportInvoices(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, _ := planQuery(c)
		res, err := svc.ExportInvoices(c.UserContext(), q.SearchTerm)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
