package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin action types recorded by the activity logger
const (
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionDeleteUser       = "delete_user"
	ActionCreateItem       = "create_item"
	ActionUpdateItem       = "update_item"
	ActionDeleteItem       = "delete_item"
	ActionIssueItem        = "issue_item"
	ActionReceiveItem      = "receive_item"
	ActionCreateCategory   = "create_category"
	ActionUpdateCategory   = "update_category"
	ActionDeleteCategory   = "delete_category"
	ActionCreateDepartment = "create_department"
	ActionUpdateDepartment = "update_department"
	ActionDeleteDepartment = "delete_department"
	ActionCreateEmployee   = "create_employee"
	ActionUpdateEmployee   = "update_employee"
	ActionDeleteEmployee   = "delete_employee"
	ActionCreateReport     = "create_report"
	ActionApproveReport    = "approve_report"
	ActionRejectReport     = "reject_report"
)

// Entity types referenced by activity entries
const (
	EntityUser        = "user"
	EntityItem        = "item"
	EntityCategory    = "category"
	EntityDepartment  = "department"
	EntityEmployee    = "employee"
	EntityTransaction = "transaction"
	EntityReport      = "report"
)

// AdminActivity is one best-effort audit record: who did what to which
// entity. Failures writing these must never block the acting request.
type AdminActivity struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ActionType string     `gorm:"type:varchar(50);not null;index" json:"action_type"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	EntityType string     `gorm:"type:varchar(20);index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AdminActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
