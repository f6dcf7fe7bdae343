package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicedash/internal/model"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CountPages(ctx context.Context, term string) (int, error) {
	args := m.Called(ctx, term)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) FetchPage(ctx context.Context, term string, page int) ([]model.InvoiceRow, error) {
	args := m.Called(ctx, term, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Insert(ctx context.Context, inv model.Invoice) (string, error) {
	args := m.Called(ctx, inv)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, id string, inv model.Invoice) error {
	args := m.Called(ctx, id, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Latest(ctx context.Context, limit int) ([]model.InvoiceRow, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) Summary(ctx context.Context) (*model.CardData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CardData), args.Error(1)
}
