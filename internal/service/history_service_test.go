package service

import (
	"context"
	"testing"

	"tradedocs/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyFixture struct {
	svc         HistoryService
	invoiceRepo *memInvoiceRepo
	historyRepo *memHistoryRepo
	companyID   uuid.UUID
	invoice     *model.Invoice
}

func newHistoryFixture(t *testing.T) *historyFixture {
	t.Helper()

	f := &historyFixture{
		invoiceRepo: &memInvoiceRepo{invoices: map[uuid.UUID]*model.Invoice{}},
		historyRepo: &memHistoryRepo{},
		companyID:   uuid.New(),
	}
	f.invoice = &model.Invoice{
		ID:        uuid.New(),
		InvoiceNo: "INV-20260831-00007",
		CompanyID: f.companyID,
		Status:    model.InvoiceStatusPending,
	}
	f.invoiceRepo.invoices[f.invoice.ID] = f.invoice

	require.NoError(t, f.historyRepo.Append(context.Background(), &model.InvoiceHistory{
		InvoiceID:     f.invoice.ID,
		Action:        model.HistoryActionCreate,
		StatusAfter:   model.InvoiceStatusPending,
		ChangedFields: "[]",
		ChangeData:    `{"invoice_no":"INV-20260831-00007"}`,
	}))

	f.svc = NewHistoryService(f.invoiceRepo, f.historyRepo)
	return f
}

func TestListInvoiceHistory(t *testing.T) {
	f := newHistoryFixture(t)

	entries, total, err := f.svc.ListInvoiceHistory(context.Background(), f.invoice.ID.String(), f.companyID, 1, 20)
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, model.HistoryActionCreate, entries[0].Action)
	assert.Equal(t, model.InvoiceStatusPending, entries[0].StatusAfter)
	assert.NotEmpty(t, entries[0].CreatedAt)
}

func TestListInvoiceHistoryForeignCompanyIsNotFound(t *testing.T) {
	f := newHistoryFixture(t)

	_, _, err := f.svc.ListInvoiceHistory(context.Background(), f.invoice.ID.String(), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, ErrNotFound, "a foreign invoice's trail must stay hidden even though entries exist")
}

func TestListInvoiceHistorySurvivesInvoiceDeletion(t *testing.T) {
	f := newHistoryFixture(t)
	delete(f.invoiceRepo.invoices, f.invoice.ID)

	entries, total, err := f.svc.ListInvoiceHistory(context.Background(), f.invoice.ID.String(), f.companyID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, entries, 1)
}

func TestListInvoiceHistoryUnknownInvoiceIsNotFound(t *testing.T) {
	f := newHistoryFixture(t)

	_, _, err := f.svc.ListInvoiceHistory(context.Background(), uuid.NewString(), f.companyID, 1, 20)
	assert.ErrorIs(t, err, ErrNotFound)
}
