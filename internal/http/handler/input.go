package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"invoicedash/internal/validation"
)

var invoiceFields = []string{validation.FieldCustomerID, validation.FieldAmount, validation.FieldStatus}

// invoiceInput reads the invoice form fields from a JSON or form-encoded
// body. Values are passed on untyped; numbers in JSON stay json.Number so no
// precision is lost before validation.
func invoiceInput(c *fiber.Ctx) (map[string]any, error) {
	if c.Is("json") {
		dec := json.NewDecoder(bytes.NewReader(c.Body()))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		return lo.PickByKeys(body, invoiceFields), nil
	}

	raw := make(map[string]any, len(invoiceFields))
	for _, f := range invoiceFields {
		if v := c.FormValue(f); v != "" {
			raw[f] = v
		}
	}
	return raw, nil
}

// invoiceID returns the :id path parameter when it is a well-formed UUID.
func invoiceID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
