package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory anchors a packaging hierarchy: all conversion edges belong
// to exactly one category.
type ProductCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PackagingUnit is immutable reference data; a unit may appear in multiple
// hierarchies across categories.
type PackagingUnit struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Abbreviation string    `gorm:"type:varchar(20)" json:"abbreviation"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConversionEdge is one directed rule "Quantity FromUnit = 1 ToUnit" within a
// category's hierarchy, ordered by Level. Edges for a category form a general
// directed graph, not necessarily a single chain.
type ConversionEdge struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Level      int              `gorm:"type:int;not null" json:"level"` // ordinal >= 1
	FromUnitID uuid.UUID        `gorm:"type:uuid;not null" json:"from_unit_id"`
	FromUnit   *PackagingUnit   `gorm:"foreignKey:FromUnitID" json:"from_unit,omitempty"`
	ToUnitID   uuid.UUID        `gorm:"type:uuid;not null" json:"to_unit_id"`
	ToUnit     *PackagingUnit   `gorm:"foreignKey:ToUnitID" json:"to_unit,omitempty"`
	Quantity   float64          `gorm:"type:decimal(12,4);not null" json:"quantity"` // must be > 0
	IsActive   bool             `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Product is a sellable item tied to a category's packaging hierarchy.
type Product struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name       string           `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Rate       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"rate"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductPackagingProfile is the per-product override of the category-level
// conversion graph (a product may skip levels). The dynamic maps are stored
// as string-keyed JSON ("PiecesPerBox", "weightPerBox") and translated into
// typed keys at the service boundary.
type ProductPackagingProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	Product        *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UnitWeight     float64   `gorm:"type:decimal(12,4);not null;default:0" json:"unit_weight"`
	UnitWeightUnit string    `gorm:"type:varchar(20)" json:"unit_weight_unit"` // kg, g
	WeightUnitType string    `gorm:"type:varchar(50)" json:"weight_unit_type"` // graph node the unit weight is measured at

	Quantities string `gorm:"type:jsonb;default:'{}'" json:"quantities"` // {"PiecesPerBox": 12, "BoxPerPallet": 40}
	Weights    string `gorm:"type:jsonb;default:'{}'" json:"weights"`    // {"weightPerBox": 6, "weightPerPallet": 240}

	CBMPerBox         float64 `gorm:"type:decimal(12,4);not null;default:0" json:"cbm_per_box"`
	GrossWeightPerBox float64 `gorm:"type:decimal(12,4);not null;default:0" json:"gross_weight_per_box"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
