// Package validation turns raw invoice form input into a typed invoice.
package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"invoicedash/internal/model"
)

// Form field names.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

var messages = map[string]string{
	FieldCustomerID: "Please select a customer.",
	FieldAmount:     "Please enter an amount greater than $0.",
	FieldStatus:     "Please select an invoice status.",
}

var fieldOrder = []string{FieldCustomerID, FieldAmount, FieldStatus}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Bounds on the decimal exponent of an amount. Arithmetic on a decimal
// rescales by 10^exponent, so out-of-range exponents are rejected before any
// arithmetic happens.
const (
	maxIntegerDigits = 17
	minExponent      = -64
	maxAmountLength  = 64
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks raw form fields and returns the invoice they describe.
// ID and Date are left empty; they are assigned by storage. When any field
// is invalid the failures are returned in form order and the invoice is zero.
func Validate(raw map[string]any) (model.Invoice, []model.ValidationFailure) {
	failed := make(map[string]bool, len(fieldOrder))

	draft := model.InvoiceDraft{
		CustomerID: strings.TrimSpace(stringField(raw, FieldCustomerID)),
		Status:     stringField(raw, FieldStatus),
	}

	amount, ok := coerceAmount(raw[FieldAmount])
	if !ok || !inRange(amount) || !amount.IsPositive() {
		failed[FieldAmount] = true
	} else {
		draft.Amount = amount
	}

	if err := validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				failed[fe.Field()] = true
			}
		}
	}

	var cents decimal.Decimal
	if !failed[FieldAmount] {
		cents = draft.Amount.Mul(hundred).Round(0)
		if cents.IsZero() || cents.GreaterThan(maxCents) {
			failed[FieldAmount] = true
		}
	}

	if len(failed) > 0 {
		failures := make([]model.ValidationFailure, 0, len(failed))
		for _, f := range fieldOrder {
			if failed[f] {
				failures = append(failures, model.ValidationFailure{Field: f, Message: messages[f]})
			}
		}
		return model.Invoice{}, failures
	}

	return model.Invoice{
		CustomerID:  draft.CustomerID,
		AmountCents: cents.IntPart(),
		Status:      model.InvoiceStatus(draft.Status),
	}, nil
}

// stringField returns the string value of key, or "" when the value is absent
// or not a string.
func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// inRange reports whether d has a magnitude and precision that cents
// conversion can handle. It inspects only the coefficient length and the
// exponent.
func inRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < minExponent {
		return false
	}
	return d.NumDigits()+exp <= maxIntegerDigits
}

// coerceAmount converts a loosely typed amount to a decimal.
func coerceAmount(v any) (decimal.Decimal, bool) {
	switch a := v.(type) {
	case string:
		s := strings.TrimSpace(a)
		if s == "" || len(s) > maxAmountLength {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		if len(a) > maxAmountLength {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(a.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(a), true
	case float32:
		f := float64(a)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(a), true
	case int:
		return decimal.NewFromInt(int64(a)), true
	case int32:
		return decimal.NewFromInt32(a), true
	case int64:
		return decimal.NewFromInt(a), true
	case decimal.Decimal:
		return a, true
	default:
		return decimal.Zero, false
	}
}
