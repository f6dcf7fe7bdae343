// Package client talks to the invoice HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"invoicedash/internal/model"
)

// Options configures a Client.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	Logger   *zap.Logger
}

// Client is an invoice API client. Reads are retried on connection errors
// and 5xx responses; creates are never retried so an invoice is not stored twice.
type Client struct {
	base string
	http *retryablehttp.Client
}

// ListResponse is one page of the listing.
type ListResponse struct {
	Query      string             `json:"query"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Invoices   []model.InvoiceRow `json:"invoices"`
}

// MutationResponse is the body of a successful create or update.
type MutationResponse struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Redirect string `json:"redirect"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []model.ValidationFailure
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

type noRetryKey struct{}

// New returns a client for the API at baseURL.
func New(baseURL string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Transport = otelhttp.NewTransport(rc.HTTPClient.Transport)
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	if opts.Logger != nil {
		rc.Logger = leveledLogger{opts.Logger.Sugar()}
	} else {
		rc.Logger = nil
	}
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if skip, _ := ctx.Value(noRetryKey{}).(bool); skip {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	// Hand the last response back instead of a generic "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{base: strings.TrimRight(baseURL, "/"), http: rc}
}

// ListInvoices fetches one page of the listing for q.
func (c *Client) ListInvoices(ctx context.Context, q model.QueryState) (*ListResponse, error) {
	params := url.Values{}
	if q.SearchTerm != "" {
		params.Set("query", q.SearchTerm)
	}
	if q.PageNumber > 0 {
		params.Set("page", strconv.Itoa(q.PageNumber))
	}
	var out ListResponse
	if err := c.do(ctx, http.MethodGet, "/invoices?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvoice submits form fields for a new invoice.
func (c *Client) CreateInvoice(ctx context.Context, fields url.Values) (*MutationResponse, error) {
	ctx = context.WithValue(ctx, noRetryKey{}, true)
	var out MutationResponse
	if err := c.do(ctx, http.MethodPost, "/invoices", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInvoice submits form fields for an existing invoice.
func (c *Client) UpdateInvoice(ctx context.Context, id string, fields url.Values) (*MutationResponse, error) {
	var out MutationResponse
	if err := c.do(ctx, http.MethodPut, "/invoices/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/invoices/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body any
	if form != nil {
		body = []byte(form.Encode())
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Fields []model.ValidationFailure `json:"fields"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(b, &payload) == nil {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
		apiErr.Fields = payload.Fields
	}
	return apiErr
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
