package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusConfirmed = "confirmed"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice aggregates line items into shippable, billable invoice state.
// All derived totals are recomputed from the line items on every mutation,
// never trusted from a cache or from the client.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	Status        string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ContainerType string `gorm:"type:varchar(20);not null" json:"container_type"`

	Items []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"items"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	Charges       string          `gorm:"type:jsonb;default:'{}'" json:"charges"` // {"freight": 300, "insurance": 50}
	ChargesTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"charges_total"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	AdvanceAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"advance_amount"` // advance already deducted from the total

	TotalWeight      float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_weight"`
	TotalGrossWeight float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_gross_weight"`
	TotalVolume      float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_volume"`
	TotalBoxes       float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_boxes"`
	TotalPallets     float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_pallets"`

	RequiredContainers int `gorm:"type:int;not null;default:1" json:"required_containers"`
	NumberOfContainers int `gorm:"type:int;not null;default:1" json:"number_of_containers"` // max(override ?? required, 1), never zero

	Note      string     `gorm:"type:text" json:"note"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// InvoiceLineItem is one product line. The packing breakdown columns are
// derived, never user-supplied; BreakdownComputed is false when the product's
// profile lacked the hierarchy data and the flat fallback fields were used.
type InvoiceLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity float64         `gorm:"type:decimal(14,4);not null" json:"quantity"`
	Unit     string          `gorm:"type:varchar(50);not null" json:"unit"`
	Rate     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`

	// Flat fallback, typed directly on the line when no breakdown is possible.
	FlatWeight float64 `gorm:"type:decimal(14,2);not null;default:0" json:"flat_weight"`

	BreakdownComputed bool    `gorm:"not null;default:false" json:"breakdown_computed"`
	CalculatedBoxes   float64 `gorm:"type:decimal(14,2);not null;default:0" json:"calculated_boxes"`
	CalculatedPallets float64 `gorm:"type:decimal(14,2);not null;default:0" json:"calculated_pallets"`
	TotalCBM          float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_cbm"`
	TotalWeight       float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_weight"`
	GrossWeight       float64 `gorm:"type:decimal(14,2);not null;default:0" json:"gross_weight"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
