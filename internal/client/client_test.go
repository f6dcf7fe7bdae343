package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedash/internal/model"
)

func TestClient_ListInvoices(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/invoices", r.URL.Path)
		assert.Equal(t, "lee", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"lee","page":2,"totalPages":3,"invoices":[{"id":"a","customer_id":"c","amount_cents":1250,"status":"paid","date":"2023-06-01","name":"Lee"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, Options{RetryMax: 2})

	res, err := c.ListInvoices(context.Background(), model.QueryState{SearchTerm: "lee", PageNumber: 2})

	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "a transient 503 is retried")
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "2023-06-01", res.Invoices[0].DateString())
	assert.Equal(t, int64(1250), res.Invoices[0].AmountCents)
}

func TestClient_CreateInvoice(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "12.50", r.PostForm.Get("amount"))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"new-id","state":"redirected","redirect":"/dashboard/invoices"}`))
		}))
		defer srv.Close()

		res, err := New(srv.URL, Options{}).CreateInvoice(context.Background(), url.Values{
			"customerId": {"c1"}, "amount": {"12.50"}, "status": {"paid"},
		})

		require.NoError(t, err)
		assert.Equal(t, "new-id", res.ID)
		assert.Equal(t, "/dashboard/invoices", res.Redirect)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"request_id":"r","error":{"code":"STORAGE_ERROR","message":"database error"}}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, Options{RetryMax: 3}).CreateInvoice(context.Background(), url.Values{})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "STORAGE_ERROR", apiErr.Code)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("validation failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":{"code":"VALIDATION_FAILED","message":"invalid invoice"},"fields":[{"field":"amount","message":"Please enter an amount greater than $0."}]}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, Options{}).CreateInvoice(context.Background(), url.Values{"amount": {"0"}})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "amount", apiErr.Fields[0].Field)
		assert.Contains(t, apiErr.Error(), "VALIDATION_FAILED")
	})
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id":"inv-1","state":"redirected","redirect":"/dashboard/invoices"}`))
	}))
	defer srv.Close()
	c := New(srv.URL+"/", Options{})

	res, err := c.UpdateInvoice(context.Background(), "inv-1", url.Values{"status": {"paid"}})
	require.NoError(t, err)
	assert.Equal(t, "redirected", res.State)

	require.NoError(t, c.DeleteInvoice(context.Background(), "inv-1"))

	assert.Equal(t, []string{"PUT /invoices/inv-1", "DELETE /invoices/inv-1"}, methods)
}
