package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item lifecycle statuses. available<->in_use transitions belong to the
// issue/receive workflow; the maintenance statuses are set manually by
// administrators.
const (
	ItemStatusAvailable   = "available"
	ItemStatusInUse       = "in_use"
	ItemStatusDamaged     = "damaged"
	ItemStatusUnderRepair = "under_repair"
	ItemStatusDiscarded   = "discarded"
)

// ManualStatuses are the statuses an administrator may set directly,
// outside the issue/receive workflow.
var ManualStatuses = map[string]bool{
	ItemStatusAvailable:   true,
	ItemStatusDamaged:     true,
	ItemStatusUnderRepair: true,
	ItemStatusDiscarded:   true,
}

// ItemCategory is a department-scoped grouping for items
type ItemCategory struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (c *ItemCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Item is a trackable inventory unit. SerialNumber is a per-department
// convention, not enforced unique.
type Item struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *ItemCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	SerialNumber string         `gorm:"type:varchar(100);not null;index" json:"serial_number"`
	Status       string         `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Condition    string         `gorm:"type:text" json:"condition"`
	AddedBy      *uuid.UUID     `gorm:"type:uuid" json:"added_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
