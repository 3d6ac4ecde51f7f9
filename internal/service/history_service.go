package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradedocs/internal/repository"

	"github.com/google/uuid"
)

type HistoryEntryResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Action        string          `json:"action"`
	StatusBefore  string          `json:"status_before,omitempty"`
	StatusAfter   string          `json:"status_after,omitempty"`
	ChangedFields []string        `json:"changed_fields"`
	ChangeData    json.RawMessage `json:"change_data"`
	CreatedBy     *string         `json:"created_by"`
	CreatorName   string          `json:"creator_name,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// HistoryService reads the audit trail of an invoice. The trail survives the
// invoice itself, so deleted invoices keep their history.
type HistoryService interface {
	ListInvoiceHistory(ctx context.Context, invoiceID string, companyID uuid.UUID, page, limit int) ([]HistoryEntryResponse, int64, error)
}

type historyService struct {
	invoiceRepo repository.InvoiceRepository
	historyRepo repository.HistoryRepository
}

func NewHistoryService(invoiceRepo repository.InvoiceRepository, historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{invoiceRepo: invoiceRepo, historyRepo: historyRepo}
}

func (s *historyService) ListInvoiceHistory(ctx context.Context, invoiceID string, companyID uuid.UUID, page, limit int) ([]HistoryEntryResponse, int64, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid invoice id: %w", err)
	}

	// Tenant check runs against the invoice; entries of a foreign invoice are
	// as invisible as the invoice itself. A deleted invoice no longer has a
	// row to scope by, so its trail stays readable.
	if _, findErr := s.invoiceRepo.FindByID(ctx, id, companyID); findErr != nil {
		exists, existsErr := s.invoiceRepo.Exists(ctx, id)
		if existsErr != nil {
			return nil, 0, existsErr
		}
		if exists {
			// The row is there but scoped to another company.
			return nil, 0, mapNotFound(findErr, "invoice")
		}
		entries, _, listErr := s.historyRepo.ListByInvoice(ctx, id, 1, 1)
		if listErr != nil || len(entries) == 0 {
			return nil, 0, mapNotFound(findErr, "invoice")
		}
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.historyRepo.ListByInvoice(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := HistoryEntryResponse{
			ID:           e.ID.String(),
			InvoiceID:    e.InvoiceID.String(),
			Action:       e.Action,
			StatusBefore: e.StatusBefore,
			StatusAfter:  e.StatusAfter,
			ChangeData:   json.RawMessage(e.ChangeData),
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		}
		if unmarshalErr := json.Unmarshal([]byte(e.ChangedFields), &resp.ChangedFields); unmarshalErr != nil {
			resp.ChangedFields = []string{}
		}
		if e.CreatedBy != nil {
			idStr := e.CreatedBy.String()
			resp.CreatedBy = &idStr
		}
		if e.Creator != nil {
			resp.CreatorName = e.Creator.Username
		}
		result = append(result, resp)
	}

	return result, total, nil
}
