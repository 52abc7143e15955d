package repository

import (
	"context"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, page, limit int, departmentID *uuid.UUID, search string) ([]model.Employee, int64, error)
	HasLinkedUser(ctx context.Context, id uuid.UUID) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	return GetDB(ctx, r.db).Create(emp).Error
}

func (r *employeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	return GetDB(ctx, r.db).Save(emp).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var emp model.Employee
	if err := GetDB(ctx, r.db).Preload("Department").First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int, departmentID *uuid.UUID, search string) ([]model.Employee, int64, error) {
	var emps []model.Employee
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	}
	if search != "" {
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Department").Order("last_name asc, first_name asc").
		Offset(offset).Limit(limit).Find(&emps).Error; err != nil {
		return nil, 0, err
	}

	return emps, total, nil
}

func (r *employeeRepository) HasLinkedUser(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Where("employee_id = ?", id).Count(&n).Error
	return n > 0, err
}
