package repository

import (
	"context"
	"errors"

	"tradedocs/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	// FindByInvoiceID returns (nil, nil) when no order exists yet.
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.Order, error)
	UpdatePaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// NextSequence returns the next day-scoped order number sequence for the
	// given prefix, serialized behind a pg advisory lock so concurrent
	// transactions cannot mint the same number.
	NextSequence(ctx context.Context, prefix string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).First(&order, "invoice_id = ?", invoiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdatePaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("payment_amount", amount).Error
}

func (r *orderRepository) NextSequence(ctx context.Context, prefix string) (int64, error) {
	db := GetDB(ctx, r.db)
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count + 1, nil
}
