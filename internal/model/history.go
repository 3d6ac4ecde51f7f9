package model

import (
	"time"

	"github.com/google/uuid"
)

// History actions
const (
	HistoryActionCreate       = "CREATE"
	HistoryActionUpdate       = "UPDATE"
	HistoryActionDelete       = "DELETE"
	HistoryActionStatusChange = "STATUS_CHANGE"
)

// InvoiceHistory is an immutable, append-only audit record of an invoice
// mutation. Entries are never updated or deleted; there is deliberately no
// UpdatedAt column.
type InvoiceHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`

	Action        string `gorm:"type:varchar(30);not null;index" json:"action"`
	StatusBefore  string `gorm:"type:varchar(20)" json:"status_before"`
	StatusAfter   string `gorm:"type:varchar(20)" json:"status_after"`
	ChangedFields string `gorm:"type:jsonb;default:'[]'" json:"changed_fields"` // JSON array of field names
	ChangeData    string `gorm:"type:jsonb;default:'{}'" json:"change_data"`    // JSON snapshot of the change

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"` // nullable for automated changes
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}
