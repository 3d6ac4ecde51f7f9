package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// Order is spawned by the confirmation workflow, at most one per invoice.
// OrderNumber follows ORD-YYYYMMDD-NNNN with the sequence scoped per day.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Invoice     *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`

	OrderStatus   string          `gorm:"type:varchar(20);not null;default:'confirmed'" json:"order_status"`
	PaymentAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"payment_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
