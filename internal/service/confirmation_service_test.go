package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tradedocs/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- in-memory repositories ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInSerializableTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
}

func (m *memInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *memInvoiceRepo) FindByID(ctx context.Context, id, companyID uuid.UUID) (*model.Invoice, error) {
	invoice, ok := m.invoices[id]
	if !ok || invoice.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (m *memInvoiceRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.invoices[id]
	return ok, nil
}

func (m *memInvoiceRepo) FindByIDWithItems(ctx context.Context, id, companyID uuid.UUID) (*model.Invoice, error) {
	return m.FindByID(ctx, id, companyID)
}

func (m *memInvoiceRepo) List(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Invoice, int64, error) {
	return nil, 0, nil
}

func (m *memInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *memInvoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	invoice, ok := m.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	invoice.Status = status
	return nil
}

func (m *memInvoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceLineItem) error {
	return nil
}

func (m *memInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.invoices, id)
	return nil
}

func (m *memInvoiceRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	for _, invoice := range m.invoices {
		if strings.HasPrefix(invoice.InvoiceNo, prefix) {
			count++
		}
	}
	return count, nil
}

type memPaymentRepo struct {
	payments []*model.Payment
}

func (m *memPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	payment.ID = uuid.New()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *memPaymentRepo) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.Payment, error) {
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			return p, nil
		}
	}
	return nil, nil
}

type memOrderRepo struct {
	orders []*model.Order
}

func (m *memOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.New()
	m.orders = append(m.orders, order)
	return nil
}

func (m *memOrderRepo) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.Order, error) {
	for _, o := range m.orders {
		if o.InvoiceID == invoiceID {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memOrderRepo) UpdatePaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	for _, o := range m.orders {
		if o.ID == id {
			o.PaymentAmount = amount
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memOrderRepo) NextSequence(ctx context.Context, prefix string) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if strings.HasPrefix(o.OrderNumber, prefix) {
			count++
		}
	}
	return count + 1, nil
}

type memHistoryRepo struct {
	entries []*model.InvoiceHistory
}

func (m *memHistoryRepo) Append(ctx context.Context, entry *model.InvoiceHistory) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memHistoryRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID, page, limit int) ([]model.InvoiceHistory, int64, error) {
	var out []model.InvoiceHistory
	for _, e := range m.entries {
		if e.InvoiceID == invoiceID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

// --- fixtures ---

type confirmationFixture struct {
	svc         ConfirmationService
	invoiceRepo *memInvoiceRepo
	paymentRepo *memPaymentRepo
	orderRepo   *memOrderRepo
	historyRepo *memHistoryRepo
	companyID   uuid.UUID
	invoice     *model.Invoice
}

func newConfirmationFixture(t *testing.T) *confirmationFixture {
	t.Helper()

	f := &confirmationFixture{
		invoiceRepo: &memInvoiceRepo{invoices: map[uuid.UUID]*model.Invoice{}},
		paymentRepo: &memPaymentRepo{},
		orderRepo:   &memOrderRepo{},
		historyRepo: &memHistoryRepo{},
		companyID:   uuid.New(),
	}

	f.invoice = &model.Invoice{
		ID:            uuid.New(),
		InvoiceNo:     "INV-20260831-00001",
		CompanyID:     f.companyID,
		Status:        model.InvoiceStatusPending,
		ContainerType: "40 Feet",
		TotalAmount:   decimal.NewFromInt(47350),
		AdvanceAmount: decimal.NewFromInt(5000),
	}
	f.invoiceRepo.invoices[f.invoice.ID] = f.invoice

	f.svc = NewConfirmationService(f.invoiceRepo, f.paymentRepo, f.orderRepo, f.historyRepo, fakeTxManager{}, nil)
	return f
}

// --- tests ---

func TestTransitionStatusConfirmSpawnsPaymentAndOrder(t *testing.T) {
	f := newConfirmationFixture(t)
	userID := uuid.New()

	result, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, &userID,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed, PaymentAmount: "10000"})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusConfirmed, result.Invoice.Status)
	assert.Equal(t, model.InvoiceStatusConfirmed, f.invoiceRepo.invoices[f.invoice.ID].Status)

	require.Len(t, f.paymentRepo.payments, 1)
	payment := f.paymentRepo.payments[0]
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(52350)), "amount should be total plus advance, got %s", payment.Amount)
	assert.True(t, payment.DueAmount.Equal(decimal.NewFromInt(47350)))
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), payment.DueDate, time.Minute)

	require.Len(t, f.orderRepo.orders, 1)
	order := f.orderRepo.orders[0]
	assert.Equal(t, "ORD-"+time.Now().Format("20060102")+"-0001", order.OrderNumber)
	assert.Equal(t, model.OrderStatusConfirmed, order.OrderStatus)
	assert.True(t, order.PaymentAmount.Equal(decimal.NewFromInt(10000)))

	require.Len(t, f.historyRepo.entries, 1)
	entry := f.historyRepo.entries[0]
	assert.Equal(t, model.HistoryActionStatusChange, entry.Action)
	assert.Equal(t, model.InvoiceStatusPending, entry.StatusBefore)
	assert.Equal(t, model.InvoiceStatusConfirmed, entry.StatusAfter)
	require.NotNil(t, entry.CreatedBy)
	assert.Equal(t, userID, *entry.CreatedBy)
}

func TestTransitionStatusRepeatConfirmationRejected(t *testing.T) {
	f := newConfirmationFixture(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateConfirmation)

	var dup *DuplicateConfirmationError
	require.ErrorAs(t, err, &dup)
	require.NotNil(t, dup.Order, "rejection should report the existing order")
	assert.Equal(t, f.orderRepo.orders[0].OrderNumber, dup.Order.OrderNumber)

	// nothing new was written
	assert.Len(t, f.paymentRepo.payments, 1)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Len(t, f.historyRepo.entries, 1)
}

func TestTransitionStatusRepeatConfirmationMergesPaymentAmount(t *testing.T) {
	f := newConfirmationFixture(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed, PaymentAmount: "1000"})
	require.NoError(t, err)

	result, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed, PaymentAmount: "2500"})
	require.NoError(t, err)

	require.NotNil(t, result.Order)
	assert.True(t, result.Order.PaymentAmount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, f.orderRepo.orders[0].PaymentAmount.Equal(decimal.NewFromInt(2500)))

	// merge does not duplicate rows or record a state change
	assert.Len(t, f.paymentRepo.payments, 1)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Len(t, f.historyRepo.entries, 1)
}

func TestTransitionStatusCancel(t *testing.T) {
	f := newConfirmationFixture(t)

	result, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusCancelled, result.Invoice.Status)
	assert.Nil(t, result.Payment)
	assert.Nil(t, result.Order)
	assert.Empty(t, f.paymentRepo.payments)
	assert.Empty(t, f.orderRepo.orders)
	require.Len(t, f.historyRepo.entries, 1)
	assert.Equal(t, model.InvoiceStatusCancelled, f.historyRepo.entries[0].StatusAfter)
}

func TestTransitionStatusCancelledInvoiceCannotBeConfirmed(t *testing.T) {
	f := newConfirmationFixture(t)
	f.invoice.Status = model.InvoiceStatusCancelled

	_, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, f.paymentRepo.payments)
	assert.Empty(t, f.orderRepo.orders)
}

func TestTransitionStatusUnknownTarget(t *testing.T) {
	f := newConfirmationFixture(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), f.companyID, nil,
		StatusTransitionRequest{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionStatusOtherCompanyInvoiceIsNotFound(t *testing.T) {
	f := newConfirmationFixture(t)

	_, err := f.svc.TransitionStatus(context.Background(), f.invoice.ID.String(), uuid.New(), nil,
		StatusTransitionRequest{Status: model.InvoiceStatusConfirmed})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrInvalidStatus))
	assert.Empty(t, f.paymentRepo.payments)
	assert.Empty(t, f.historyRepo.entries)
}
