package validation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoicedash/internal/model"
)

func fields(failures []model.ValidationFailure) []string {
	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.Field)
	}
	return out
}

func TestValidate_Success(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantCents int64
	}{
		{
			name:      "string amount",
			raw:       map[string]any{"customerId": "cust_1", "amount": "42.5", "status": "pending"},
			wantCents: 4250,
		},
		{
			name:      "float amount",
			raw:       map[string]any{"customerId": "cust_1", "amount": 42.5, "status": "paid"},
			wantCents: 4250,
		},
		{
			name:      "int amount",
			raw:       map[string]any{"customerId": "cust_1", "amount": 7, "status": "paid"},
			wantCents: 700,
		},
		{
			name:      "json number",
			raw:       map[string]any{"customerId": "cust_1", "amount": json.Number("19.99"), "status": "paid"},
			wantCents: 1999,
		},
		{
			name:      "half cent rounds away from zero",
			raw:       map[string]any{"customerId": "cust_1", "amount": "0.125", "status": "paid"},
			wantCents: 13,
		},
		{
			name:      "below half cent rounds down",
			raw:       map[string]any{"customerId": "cust_1", "amount": "10.004", "status": "paid"},
			wantCents: 1000,
		},
		{
			name:      "surrounding whitespace is ignored",
			raw:       map[string]any{"customerId": " cust_1 ", "amount": " 3 ", "status": "pending"},
			wantCents: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, failures := Validate(tt.raw)

			assert.Empty(t, failures)
			assert.Equal(t, "cust_1", inv.CustomerID)
			assert.Equal(t, tt.wantCents, inv.AmountCents)
			assert.True(t, inv.Status.Valid())
			assert.Empty(t, inv.ID)
			assert.True(t, inv.Date.IsZero())
		})
	}
}

func TestValidate_Amount(t *testing.T) {
	bad := []any{nil, "", "   ", "abc", "12abc", "0", "-1", 0, -5, 0.0, -0.01, math.NaN(), math.Inf(1), true, []string{"1"}, decimal.NewFromInt(-3)}

	for _, amount := range bad {
		raw := map[string]any{"customerId": "cust_1", "amount": amount, "status": "paid"}

		inv, failures := Validate(raw)

		assert.Equal(t, []string{FieldAmount}, fields(failures), "amount %v", amount)
		assert.Equal(t, model.Invoice{}, inv)
	}

	t.Run("missing amount", func(t *testing.T) {
		_, failures := Validate(map[string]any{"customerId": "cust_1", "status": "paid"})
		assert.Equal(t, []string{FieldAmount}, fields(failures))
	})

	t.Run("too large for cents", func(t *testing.T) {
		_, failures := Validate(map[string]any{"customerId": "cust_1", "amount": "1e30", "status": "paid"})
		assert.Equal(t, []string{FieldAmount}, fields(failures))
	})

	t.Run("rounds to zero cents", func(t *testing.T) {
		for _, amount := range []any{"0.001", "0.0049", 0.004, json.Number("0.00001")} {
			_, failures := Validate(map[string]any{"customerId": "cust_1", "amount": amount, "status": "paid"})
			assert.Equal(t, []string{FieldAmount}, fields(failures), "amount %v", amount)
		}
	})

	t.Run("smallest accepted amount is one cent", func(t *testing.T) {
		inv, failures := Validate(map[string]any{"customerId": "cust_1", "amount": "0.005", "status": "paid"})
		assert.Empty(t, failures)
		assert.Equal(t, int64(1), inv.AmountCents)
	})
}

func TestValidate_ExtremeExponents(t *testing.T) {
	extreme := []any{
		"1e1000000000",
		"1e-1000000000",
		"-1e1000000000",
		json.Number("1e999999999"),
		json.Number("5e-999999999"),
		"123456789012345678",
		"0." + strings.Repeat("0", 200000) + "1",
		json.Number(strings.Repeat("9", 200000)),
		1e300,
		decimal.New(1, math.MaxInt32),
		decimal.New(1, math.MinInt32),
	}

	for _, amount := range extreme {
		done := make(chan []model.ValidationFailure, 1)
		go func() {
			_, failures := Validate(map[string]any{"customerId": "cust_1", "amount": amount, "status": "paid"})
			done <- failures
		}()

		select {
		case failures := <-done:
			assert.Equal(t, []string{FieldAmount}, fields(failures), "amount %v", amount)
		case <-time.After(time.Second):
			t.Fatalf("validating amount %v did not finish", amount)
		}
	}
}

func TestValidate_LargestAmounts(t *testing.T) {
	inv, failures := Validate(map[string]any{"customerId": "cust_1", "amount": "92233720368547758.07", "status": "paid"})
	assert.Empty(t, failures)
	assert.Equal(t, int64(math.MaxInt64), inv.AmountCents)

	_, failures = Validate(map[string]any{"customerId": "cust_1", "amount": "92233720368547758.08", "status": "paid"})
	assert.Equal(t, []string{FieldAmount}, fields(failures))
}

func TestValidate_Status(t *testing.T) {
	bad := []any{nil, "", "PAID", "Pending", "overdue", " paid", 1}

	for _, status := range bad {
		raw := map[string]any{"customerId": "cust_1", "amount": "10", "status": status}

		_, failures := Validate(raw)

		assert.Equal(t, []string{FieldStatus}, fields(failures), "status %v", status)
	}
}

func TestValidate_CustomerID(t *testing.T) {
	bad := []any{nil, "", "   ", 42}

	for _, id := range bad {
		raw := map[string]any{"customerId": id, "amount": "10", "status": "paid"}

		_, failures := Validate(raw)

		assert.Equal(t, []string{FieldCustomerID}, fields(failures), "customerId %v", id)
	}
}

func TestValidate_AllFieldsInFormOrder(t *testing.T) {
	_, failures := Validate(map[string]any{})

	assert.Equal(t, []model.ValidationFailure{
		{Field: FieldCustomerID, Message: "Please select a customer."},
		{Field: FieldAmount, Message: "Please enter an amount greater than $0."},
		{Field: FieldStatus, Message: "Please select an invoice status."},
	}, failures)
}

func TestValidate_Deterministic(t *testing.T) {
	raw := map[string]any{"customerId": "cust_9", "amount": "1.005", "status": "pending"}

	first, f1 := Validate(raw)
	second, f2 := Validate(raw)

	assert.Equal(t, first, second)
	assert.Equal(t, f1, f2)
	assert.Equal(t, int64(101), first.AmountCents)
}
