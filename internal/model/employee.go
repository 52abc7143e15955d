package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a person items get issued to. Not every employee has a login
// account; the link is on User.EmployeeID.
type Employee struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string      `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string      `gorm:"type:varchar(100);not null" json:"last_name"`
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Position     string      `gorm:"type:varchar(100)" json:"position"`
	Phone        string      `gorm:"type:varchar(20)" json:"phone"`
	Email        string      `gorm:"type:varchar(255)" json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
