package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicedash/internal/model"
	"invoicedash/internal/service"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) ListView(ctx context.Context, q model.QueryState) (*model.PageResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult), args.Error(1)
}

func (m *MockInvoiceService) PageCount(ctx context.Context, term string) (int, error) {
	args := m.Called(ctx, term)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockInvoiceService) Overview(ctx context.Context) (*service.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Overview), args.Error(1)
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, raw map[string]any) (service.MutationResult, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(service.MutationResult), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, id string, raw map[string]any) (service.MutationResult, error) {
	args := m.Called(ctx, id, raw)
	return args.Get(0).(service.MutationResult), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, id string) (service.MutationResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.MutationResult), args.Error(1)
}
