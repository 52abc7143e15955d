package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemTransaction is one issue/return ledger entry. A row with a set
// IssuedAt and null ReturnedAt is an open assignment; an item must carry at
// most one open row at any time. Returns close the same row (ReturnedAt,
// ReceivedBy) rather than inserting a second record.
type ItemTransaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	Item         *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee     *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	IssuedBy     *uuid.UUID `gorm:"type:uuid" json:"issued_by"`
	ReceivedBy   *uuid.UUID `gorm:"type:uuid" json:"received_by"`
	IssuedAt     *time.Time `gorm:"index" json:"issued_at"`
	ReturnedAt   *time.Time `gorm:"index" json:"returned_at"`
	StatusBefore string     `gorm:"type:varchar(20);not null" json:"status_before"`
	StatusAfter  string     `gorm:"type:varchar(20);not null" json:"status_after"`
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (t *ItemTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Open reports whether the entry represents a current assignment.
func (t *ItemTransaction) Open() bool {
	return t.IssuedAt != nil && t.ReturnedAt == nil
}
