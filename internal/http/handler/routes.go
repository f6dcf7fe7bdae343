package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"invoicedash/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Fixed /invoices paths are registered before /invoices/:id.
func RegisterRoutes(app *fiber.App, db *sql.DB, invoiceSvc service.InvoiceService, exportSvc service.ExportService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/dashboard", Dashboard(invoiceSvc))
	app.Get("/customers", ListCustomers(invoiceSvc))

	app.Get("/invoices", ListInvoices(invoiceSvc))
	app.Post("/invoices", CreateInvoice(invoiceSvc))
	app.Get("/invoices/pages", CountInvoicePages(invoiceSvc))
	app.Post("/invoices/export", ExportInvoices(exportSvc))
	app.Get("/invoices/:id", GetInvoice(invoiceSvc))
	app.Put("/invoices/:id", UpdateInvoice(invoiceSvc))
	app.Delete("/invoices/:id", DeleteInvoice(invoiceSvc))
}
