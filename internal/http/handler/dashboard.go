package handler

import (
	"github.com/gofiber/fiber/v2"

	"invoicedash/internal/model"
	"invoicedash/internal/service"
)

type customersResponse struct {
	Items []model.Customer `json:"data"`
}

// ListCustomers returns the customers for the invoice form picker.
//
// @Summary List customers
// @Tags Customers
// @Produce json
// @Success 200 {object} customersResponse
// @Failure 500 {object} errorPayload
// @Router /customers [get]
func ListCustomers(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListCustomers(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(customersResponse{Items: items})
	}
}

// Dashboard
//
// @Summary Dashboard overview
// @Description Invoice and customer counts, paid and pending totals in cents, and the latest invoices.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} service.Overview
// @Failure 500 {object} errorPayload
// @Router /dashboard [get]
func Dashboard(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ov, err := svc.Overview(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ov)
	}
}
