package repository

import (
	"context"

	"tradedocs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository is append-only: entries are never updated or deleted.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.InvoiceHistory) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID, page, limit int) ([]model.InvoiceHistory, int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.InvoiceHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *historyRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID, page, limit int) ([]model.InvoiceHistory, int64, error) {
	var entries []model.InvoiceHistory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.InvoiceHistory{}).Where("invoice_id = ?", invoiceID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Creator").
		Where("invoice_id = ?", invoiceID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
