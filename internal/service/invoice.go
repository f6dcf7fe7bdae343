package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"invoicedash/internal/model"
	"invoicedash/internal/repository"
	"invoicedash/internal/validation"
	"invoicedash/internal/viewcache"
)

// InvoicesPath is the canonical listing view that mutations refresh and
// redirect to.
const InvoicesPath = viewcache.InvoicesList

// DefaultLatestLimit is the number of invoices shown on the dashboard overview.
const DefaultLatestLimit = 5

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = repository.ErrNotFound
	ErrStorage    = repository.ErrStorage
)

var tracer = otel.Tracer("invoicedash/internal/service")

// MutationState is a step of a create, update or delete request.
type MutationState string

const (
	StateReceived     MutationState = "received"
	StateValidating   MutationState = "validating"
	StatePersisting   MutationState = "persisting"
	StateInvalidating MutationState = "invalidating"
	StateRedirected   MutationState = "redirected"
	StateCompleted    MutationState = "completed"
	StateRejected     MutationState = "rejected"
	StateFailed       MutationState = "failed"
)

// Terminal reports whether no further transition follows s.
func (s MutationState) Terminal() bool {
	switch s {
	case StateRedirected, StateCompleted, StateRejected, StateFailed:
		return true
	}
	return false
}

// MutationResult is the outcome of a mutation. Failures is set only when the
// input was rejected; Redirect only when the caller should navigate to the listing.
type MutationResult struct {
	State     MutationState             `json:"state"`
	InvoiceID string                    `json:"id,omitempty"`
	Failures  []model.ValidationFailure `json:"fields,omitempty"`
	Redirect  string                    `json:"redirect,omitempty"`
}

// Overview is the dashboard landing data.
type Overview struct {
	Cards  model.CardData     `json:"cards"`
	Latest []model.InvoiceRow `json:"latestInvoices"`
}

// InvoiceService defines the invoice use cases.
type InvoiceService interface {
	// ListView returns one page of the listing and the total page count for q.
	// Results are served from the view cache until a mutation invalidates it.
	ListView(ctx context.Context, q model.QueryState) (*model.PageResult, error)

	// PageCount returns the number of listing pages for a search term.
	PageCount(ctx context.Context, term string) (int, error)

	// GetInvoice returns one invoice for the edit form.
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)

	ListCustomers(ctx context.Context) ([]model.Customer, error)

	// Overview returns the dashboard cards and the latest invoices.
	Overview(ctx context.Context) (*Overview, error)

	// CreateInvoice validates raw form input and stores a new invoice.
	// A rejected input returns its failures with a nil error and no storage effect.
	CreateInvoice(ctx context.Context, raw map[string]any) (MutationResult, error)

	// UpdateInvoice validates raw form input and rewrites an existing invoice.
	UpdateInvoice(ctx context.Context, id string, raw map[string]any) (MutationResult, error)

	// DeleteInvoice removes an invoice. Deleting a missing invoice succeeds.
	DeleteInvoice(ctx context.Context, id string) (MutationResult, error)
}

type invoiceService struct {
	invoices    repository.InvoiceRepository
	customers   repository.CustomerRepository
	views       *viewcache.Store
	log         *zap.Logger
	latestLimit int
}

// NewInvoiceService constructs a new InvoiceService.
func NewInvoiceService(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	views *viewcache.Store,
	log *zap.Logger,
	latestLimit int,
) InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	if latestLimit <= 0 {
		latestLimit = DefaultLatestLimit
	}
	return &invoiceService{
		invoices:    invoices,
		customers:   customers,
		views:       views,
		log:         log,
		latestLimit: latestLimit,
	}
}

func (s *invoiceService) ListView(ctx context.Context, q model.QueryState) (*model.PageResult, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.ListView")
	defer span.End()
	span.SetAttributes(attribute.String("invoices.query", q.SearchTerm), attribute.Int("invoices.page", q.PageNumber))

	tok := s.views.Token(viewcache.InvoicesList)
	if v, ok := s.views.Get(tok, q.Key()); ok {
		res := v.(model.PageResult)
		span.SetAttributes(attribute.Bool("invoices.cache_hit", true))
		return &res, nil
	}

	var (
		total int
		rows  []model.InvoiceRow
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		n, err := s.invoices.CountPages(ctx, q.SearchTerm)
		total = n
		return err
	})
	p.Go(func(ctx context.Context) error {
		r, err := s.invoices.FetchPage(ctx, q.SearchTerm, q.PageNumber)
		rows = r
		return err
	})
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list invoices")
	}

	res := model.PageResult{TotalPages: total, Invoices: rows}
	if !s.views.Set(tok, q.Key(), res) {
		s.log.Debug("discarded stale listing", zap.String("query", q.SearchTerm), zap.Int("page", q.PageNumber))
	}
	return &res, nil
}

func (s *invoiceService) PageCount(ctx context.Context, term string) (int, error) {
	n, err := s.invoices.CountPages(ctx, term)
	if err != nil {
		return 0, errors.Wrap(err, "count invoice pages")
	}
	return n, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.invoices.FindByID(ctx, id)
}

func (s *invoiceService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.List(ctx)
}

func (s *invoiceService) Overview(ctx context.Context) (*Overview, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.Overview")
	defer span.End()

	var out Overview
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		cards, err := s.invoices.Summary(ctx)
		if err == nil {
			out.Cards = *cards
		}
		return err
	})
	p.Go(func(ctx context.Context) error {
		latest, err := s.invoices.Latest(ctx, s.latestLimit)
		out.Latest = latest
		return err
	})
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "dashboard overview")
	}
	return &out, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, raw map[string]any) (MutationResult, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.CreateInvoice")
	defer span.End()

	m := s.begin(span, "create", "")
	inv, ok := m.validate(raw)
	if !ok {
		return m.res, nil
	}

	m.to(StatePersisting)
	id, err := s.invoices.Insert(ctx, inv)
	if err != nil {
		span.RecordError(err)
		return m.fail(errors.Wrap(err, "create invoice"))
	}
	m.res.InvoiceID = id
	m.log = m.log.With(zap.String("invoice_id", id))

	s.refresh(m)
	return m.redirect(), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, raw map[string]any) (MutationResult, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.UpdateInvoice")
	defer span.End()

	m := s.begin(span, "update", id)
	if id == "" {
		return m.fail(ErrIDRequired)
	}
	inv, ok := m.validate(raw)
	if !ok {
		return m.res, nil
	}

	m.to(StatePersisting)
	if err := s.invoices.Update(ctx, id, inv); err != nil {
		span.RecordError(err)
		return m.fail(errors.Wrapf(err, "update invoice %s", id))
	}

	s.refresh(m)
	return m.redirect(), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) (MutationResult, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.DeleteInvoice")
	defer span.End()

	m := s.begin(span, "delete", id)
	if id == "" {
		return m.fail(ErrIDRequired)
	}

	m.to(StatePersisting)
	if err := s.invoices.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return m.fail(errors.Wrapf(err, "delete invoice %s", id))
	}

	s.refresh(m)
	m.to(StateCompleted)
	return m.res, nil
}

// refresh drops every cached page of the listing.
func (s *invoiceService) refresh(m *mutation) {
	m.to(StateInvalidating)
	s.views.Invalidate(viewcache.InvoicesList)
}

// mutation tracks one request through its states.
type mutation struct {
	res  MutationResult
	log  *zap.Logger
	span trace.Span
}

func (s *invoiceService) begin(span trace.Span, op, id string) *mutation {
	l := s.log.With(zap.String("op", op))
	if id != "" {
		l = l.With(zap.String("invoice_id", id))
	}
	m := &mutation{log: l, span: span}
	m.to(StateReceived)
	return m
}

func (m *mutation) to(state MutationState) {
	m.res.State = state
	m.span.AddEvent("mutation.state", trace.WithAttributes(attribute.String("state", string(state))))
	m.log.Debug("invoice mutation", zap.String("state", string(state)))
}

func (m *mutation) validate(raw map[string]any) (model.Invoice, bool) {
	m.to(StateValidating)
	inv, failures := validation.Validate(raw)
	if len(failures) > 0 {
		m.res.Failures = failures
		m.to(StateRejected)
		return model.Invoice{}, false
	}
	return inv, true
}

func (m *mutation) fail(err error) (MutationResult, error) {
	m.res.State = StateFailed
	m.span.SetStatus(codes.Error, err.Error())
	m.log.Warn("invoice mutation failed", zap.Error(err))
	return m.res, err
}

func (m *mutation) redirect() MutationResult {
	m.res.Redirect = InvoicesPath
	m.to(StateRedirected)
	return m.res
}
