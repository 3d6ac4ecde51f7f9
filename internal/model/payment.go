package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is created exactly once per invoice by the confirmation workflow.
// The unique index on InvoiceID is the second line of defense behind the
// in-transaction existence check.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Invoice   *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`

	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`     // invoice total + advance already deducted
	DueAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"due_amount"` // invoice total outstanding
	DueDate   time.Time       `gorm:"not null" json:"due_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
