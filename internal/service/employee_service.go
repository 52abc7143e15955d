package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	Position     string `json:"position"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID string `json:"department_id"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type EmployeeService interface {
	GetEmployees(ctx context.Context, page, limit int, departmentID, search string) ([]EmployeeResponse, int64, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	CreateEmployee(ctx context.Context, actorID string, req EmployeeRequest) (*EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, actorID string, id string, req EmployeeRequest) (*EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, actorID string, id string) error
}

type employeeService struct {
	repo     repository.EmployeeRepository
	activity ActivityLogger
}

func NewEmployeeService(repo repository.EmployeeRepository, activity ActivityLogger) EmployeeService {
	return &employeeService{repo: repo, activity: activity}
}

func mapEmployee(e *model.Employee) EmployeeResponse {
	res := EmployeeResponse{
		ID:           e.ID.String(),
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DepartmentID: e.DepartmentID.String(),
		Position:     e.Position,
		Phone:        e.Phone,
		Email:        e.Email,
	}
	if e.Department != nil {
		res.Department = e.Department.Name
	}
	return res
}

func validateEmployee(req EmployeeRequest) (uuid.UUID, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return uuid.Nil, apperror.Validation("employee first and last name are required")
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid department id: %s", req.DepartmentID)
	}
	return deptID, nil
}

func (s *employeeService) GetEmployees(ctx context.Context, page, limit int, departmentID, search string) ([]EmployeeResponse, int64, error) {
	var deptID *uuid.UUID
	if departmentID != "" {
		id, err := uuid.Parse(departmentID)
		if err != nil {
			return nil, 0, apperror.Validation("invalid department id: %s", departmentID)
		}
		deptID = &id
	}

	emps, total, err := s.repo.List(ctx, page, limit, deptID, search)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list employees")
	}

	res := make([]EmployeeResponse, 0, len(emps))
	for i := range emps {
		res = append(res, mapEmployee(&emps[i]))
	}
	return res, total, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid employee id: %s", id)
	}
	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load employee")
	}
	res := mapEmployee(emp)
	return &res, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actorID string, req EmployeeRequest) (*EmployeeResponse, error) {
	deptID, err := validateEmployee(req)
	if err != nil {
		return nil, err
	}

	emp := model.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DepartmentID: deptID,
		Position:     req.Position,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	if err := s.repo.Create(ctx, &emp); err != nil {
		return nil, apperror.Store(err, "failed to create employee")
	}

	s.recordActivity(actorID, model.ActionCreateEmployee, &emp)

	res := mapEmployee(&emp)
	return &res, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actorID string, id string, req EmployeeRequest) (*EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid employee id: %s", id)
	}
	deptID, err := validateEmployee(req)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load employee")
	}

	emp.FirstName = req.FirstName
	emp.LastName = req.LastName
	emp.DepartmentID = deptID
	emp.Position = req.Position
	emp.Phone = req.Phone
	emp.Email = req.Email

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, apperror.Store(err, "failed to update employee")
	}

	s.recordActivity(actorID, model.ActionUpdateEmployee, emp)

	res := mapEmployee(emp)
	return &res, nil
}

// DeleteEmployee refuses to remove an employee with a login account; the
// account must be deleted first (which cascades to the employee).
func (s *employeeService) DeleteEmployee(ctx context.Context, actorID string, id string) error {
	empID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid employee id: %s", id)
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("employee not found: %s", id)
		}
		return apperror.Store(err, "failed to load employee")
	}

	linked, err := s.repo.HasLinkedUser(ctx, empID)
	if err != nil {
		return apperror.Store(err, "failed to check employee references")
	}
	if linked {
		return apperror.Conflict("employee %s has a login account; delete the account first", emp.FullName())
	}

	if err := s.repo.Delete(ctx, empID); err != nil {
		return apperror.Store(err, "failed to delete employee")
	}

	s.recordActivity(actorID, model.ActionDeleteEmployee, emp)
	return nil
}

func (s *employeeService) recordActivity(actorID, action string, emp *model.Employee) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return
	}
	s.activity.Record(ActivityEntry{
		UserID:     actor,
		ActionType: action,
		EntityType: model.EntityEmployee,
		EntityID:   emp.ID.String(),
		Details: map[string]interface{}{
			"name":       emp.FullName(),
			"department": emp.DepartmentID.String(),
		},
	})
}
