package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportTypeMonthly = "monthly"
	ReportTypeWeekly  = "weekly"
	ReportTypeCustom  = "custom"
)

const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
	ReportStatusApproved  = "approved"
	ReportStatusRejected  = "rejected"
)

// Report is an approvable snapshot over a chosen set of ledger entries.
// It never mutates item or transaction state.
type Report struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	ReportType      string         `gorm:"type:varchar(20);not null" json:"report_type"`
	DepartmentID    *uuid.UUID     `gorm:"type:uuid;index" json:"department_id"`
	Department      *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid;index" json:"created_by"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	Status          string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Details         []ReportDetail `gorm:"foreignKey:ReportID" json:"details,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportDetail links a report to one ledger entry.
type ReportDetail struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"report_id"`
	TransactionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Transaction   *ItemTransaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	Notes         string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (d *ReportDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
