package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// --- DTOs ---

type StatusTransitionRequest struct {
	Status        string `json:"status" binding:"required,oneof=confirmed cancelled"`
	PaymentAmount string `json:"payment_amount"` // optional, recorded on the spawned order
}

type StatusTransitionResult struct {
	Invoice *model.Invoice `json:"invoice"`
	Payment *model.Payment `json:"payment,omitempty"`
	Order   *model.Order   `json:"order,omitempty"`
}

// --- Interface ---

// ConfirmationService drives the pending -> confirmed/cancelled transition.
// Confirmation spawns exactly one payment and one order per invoice; repeated
// confirmations never duplicate either.
type ConfirmationService interface {
	TransitionStatus(ctx context.Context, invoiceID string, companyID uuid.UUID, userID *uuid.UUID, req StatusTransitionRequest) (*StatusTransitionResult, error)
}

type confirmationService struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	historyRepo repository.HistoryRepository
	txManager   repository.TransactionManager
	hub         interface{ GetBroadcast() chan []byte } // optional websocket hub
}

func NewConfirmationService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	historyRepo repository.HistoryRepository,
	txManager repository.TransactionManager,
	hub interface{ GetBroadcast() chan []byte },
) ConfirmationService {
	return &confirmationService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

const paymentDueDays = 30

// --- Implementation ---

func (s *confirmationService) TransitionStatus(ctx context.Context, invoiceID string, companyID uuid.UUID, userID *uuid.UUID, req StatusTransitionRequest) (*StatusTransitionResult, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	if req.Status != model.InvoiceStatusConfirmed && req.Status != model.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var paymentAmount *decimal.Decimal
	if req.PaymentAmount != "" {
		parsed, parseErr := decimal.NewFromString(req.PaymentAmount)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid payment_amount: %w", parseErr)
		}
		paymentAmount = &parsed
	}

	var result StatusTransitionResult
	err = s.txManager.RunInSerializableTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, id, companyID)
		if findErr != nil {
			return mapNotFound(findErr, "invoice")
		}

		if invoice.Status == model.InvoiceStatusConfirmed && req.Status == model.InvoiceStatusConfirmed {
			return s.handleRepeatConfirmation(txCtx, invoice, paymentAmount, &result)
		}
		if invoice.Status != model.InvoiceStatusPending {
			return fmt.Errorf("%w: invoice is already %s", ErrInvalidStatus, invoice.Status)
		}

		statusBefore := invoice.Status
		if updateErr := s.invoiceRepo.UpdateStatus(txCtx, invoice.ID, req.Status); updateErr != nil {
			return fmt.Errorf("failed to update invoice status: %w", updateErr)
		}
		invoice.Status = req.Status
		result.Invoice = invoice

		if req.Status == model.InvoiceStatusConfirmed {
			if sideErr := s.executeConfirmation(txCtx, invoice, paymentAmount, &result); sideErr != nil {
				return sideErr
			}
		}

		changeData, _ := json.Marshal(map[string]interface{}{
			"invoice_no":    invoice.InvoiceNo,
			"status_before": statusBefore,
			"status_after":  req.Status,
		})
		changedFields, _ := json.Marshal([]string{"status"})
		entry := model.InvoiceHistory{
			InvoiceID:     invoice.ID,
			Action:        model.HistoryActionStatusChange,
			StatusBefore:  statusBefore,
			StatusAfter:   req.Status,
			ChangedFields: string(changedFields),
			ChangeData:    string(changeData),
			CreatedBy:     userID,
		}
		if histErr := s.historyRepo.Append(txCtx, &entry); histErr != nil {
			return fmt.Errorf("failed to append invoice history: %w", histErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(result.Invoice)
	return &result, nil
}

// handleRepeatConfirmation resolves a confirm request against an already
// confirmed invoice. When the caller supplies a payment amount the request is
// treated as a correction and merged onto the existing order; otherwise it is
// rejected, reporting the order the first confirmation produced. Neither path
// writes history, because the invoice itself did not change state.
func (s *confirmationService) handleRepeatConfirmation(ctx context.Context, invoice *model.Invoice, paymentAmount *decimal.Decimal, result *StatusTransitionResult) error {
	order, err := s.orderRepo.FindByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	if paymentAmount != nil && order != nil {
		if updateErr := s.orderRepo.UpdatePaymentAmount(ctx, order.ID, *paymentAmount); updateErr != nil {
			return fmt.Errorf("failed to update order payment amount: %w", updateErr)
		}
		order.PaymentAmount = *paymentAmount
		result.Invoice = invoice
		result.Order = order
		return nil
	}

	return &DuplicateConfirmationError{Order: order}
}

// executeConfirmation creates the payment and order side effects, skipping
// whichever already exists. Runs inside the serializable transaction.
func (s *confirmationService) executeConfirmation(ctx context.Context, invoice *model.Invoice, paymentAmount *decimal.Decimal, result *StatusTransitionResult) error {
	payment, err := s.paymentRepo.FindByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		payment = &model.Payment{
			InvoiceID: invoice.ID,
			Amount:    invoice.TotalAmount.Add(invoice.AdvanceAmount),
			DueAmount: invoice.TotalAmount,
			DueDate:   time.Now().AddDate(0, 0, paymentDueDays),
		}
		if createErr := s.paymentRepo.Create(ctx, payment); createErr != nil {
			return fmt.Errorf("failed to create payment: %w", createErr)
		}
	}
	result.Payment = payment

	order, err := s.orderRepo.FindByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		orderNumber, genErr := s.generateOrderNumber(ctx)
		if genErr != nil {
			return fmt.Errorf("failed to generate order number: %w", genErr)
		}
		order = &model.Order{
			OrderNumber: orderNumber,
			InvoiceID:   invoice.ID,
			OrderStatus: model.OrderStatusConfirmed,
		}
		if paymentAmount != nil {
			order.PaymentAmount = *paymentAmount
		}
		if createErr := s.orderRepo.Create(ctx, order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}
	}
	result.Order = order
	return nil
}

func (s *confirmationService) generateOrderNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "ORD-" + today + "-"

	seq, err := s.orderRepo.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// notifyStatusChange pushes the transition to connected websocket clients
// after commit. Best effort; a hub with no consumers drops the event.
func (s *confirmationService) notifyStatusChange(invoice *model.Invoice) {
	if s.hub == nil || invoice == nil {
		return
	}

	event, err := json.Marshal(map[string]interface{}{
		"type":       "invoice_status_changed",
		"invoice_id": invoice.ID.String(),
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status,
	})
	if err != nil {
		return
	}

	select {
	case s.hub.GetBroadcast() <- event:
	default:
	}

	logrus.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status,
	}).Info("invoice status changed")
}
