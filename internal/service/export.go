package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"invoicedash/internal/model"
	"invoicedash/internal/repository"
	"invoicedash/internal/storage"
)

// DefaultExportExpiry is the lifetime of an export download link.
const DefaultExportExpiry = 15 * time.Minute

var ErrExportDisabled = errors.New("object storage is not configured")

var exportHeader = []string{"id", "customer", "email", "amount", "status", "date"}

// ExportResult locates an uploaded export.
type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ExportService writes search results to object storage.
type ExportService interface {
	// ExportInvoices uploads every invoice matching term as CSV and returns a
	// presigned download link.
	ExportInvoices(ctx context.Context, term string) (*ExportResult, error)
}

type exportService struct {
	invoices repository.InvoiceRepository
	store    storage.Storage
	expiry   time.Duration
	log      *zap.Logger
}

// NewExportService constructs an ExportService. A nil store disables exports.
func NewExportService(invoices repository.InvoiceRepository, store storage.Storage, expiry time.Duration, log *zap.Logger) ExportService {
	if expiry <= 0 {
		expiry = DefaultExportExpiry
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &exportService{invoices: invoices, store: store, expiry: expiry, log: log}
}

func (s *exportService) ExportInvoices(ctx context.Context, term string) (*ExportResult, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	pages, err := s.invoices.CountPages(ctx, term)
	if err != nil {
		return nil, errors.Wrap(err, "count export pages")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	rows := 0
	for page := 1; page <= pages; page++ {
		items, err := s.invoices.FetchPage(ctx, term, page)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch export page %d", page)
		}
		for _, it := range items {
			if err := w.Write(csvRecord(it)); err != nil {
				return nil, errors.Wrap(err, "write csv row")
			}
		}
		rows += len(items)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}

	key := "exports/invoices-" + uuid.NewString() + ".csv"
	size := int64(buf.Len())
	if _, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        size,
		ContentType: "text/csv",
		Metadata:    map[string]string{"search-term": searchTermMetadata(term)},
	}); err != nil {
		return nil, errors.Wrap(err, "upload export")
	}

	link, err := s.store.PresignGet(ctx, key, s.expiry)
	if err != nil {
		// Nobody can reach the object without a link.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("export rollback failed", zap.String("key", key), zap.Error(delErr))
			return nil, errors.Wrapf(err, "presign export; rollback delete failed: %v", delErr)
		}
		return nil, errors.Wrap(err, "presign export")
	}

	s.log.Info("invoices exported", zap.String("key", key), zap.Int("rows", rows), zap.Int64("bytes", size))
	return &ExportResult{Key: key, URL: link, Rows: rows}, nil
}

// searchTermMetadata renders term as a quoted ASCII string. Object metadata
// travels in HTTP headers, which reject control characters.
func searchTermMetadata(term string) string {
	return strconv.QuoteToASCII(term)
}

func csvRecord(r model.InvoiceRow) []string {
	return []string{
		r.ID,
		r.Name,
		r.Email,
		decimal.New(r.AmountCents, -2).StringFixed(2),
		string(r.Status),
		r.DateString(),
	}
}
