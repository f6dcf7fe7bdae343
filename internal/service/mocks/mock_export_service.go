package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicedash/internal/service"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportInvoices(ctx context.Context, term string) (*service.ExportResult, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
