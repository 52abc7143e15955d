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

type DepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DepartmentService interface {
	GetDepartments(ctx context.Context, page, limit int) ([]DepartmentResponse, int64, error)
	GetDepartment(ctx context.Context, id string) (*DepartmentResponse, error)
	CreateDepartment(ctx context.Context, actorID string, req DepartmentRequest) (*DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, actorID string, id string, req DepartmentRequest) (*DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, actorID string, id string) error
}

type departmentService struct {
	repo     repository.DepartmentRepository
	activity ActivityLogger
}

func NewDepartmentService(repo repository.DepartmentRepository, activity ActivityLogger) DepartmentService {
	return &departmentService{repo: repo, activity: activity}
}

func mapDepartment(d *model.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
	}
}

func (s *departmentService) GetDepartments(ctx context.Context, page, limit int) ([]DepartmentResponse, int64, error) {
	depts, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list departments")
	}
	res := make([]DepartmentResponse, 0, len(depts))
	for i := range depts {
		res = append(res, mapDepartment(&depts[i]))
	}
	return res, total, nil
}

func (s *departmentService) GetDepartment(ctx context.Context, id string) (*DepartmentResponse, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid department id: %s", id)
	}
	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("department not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load department")
	}
	res := mapDepartment(dept)
	return &res, nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, actorID string, req DepartmentRequest) (*DepartmentResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("department name is required")
	}

	dept := model.Department{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, &dept); err != nil {
		return nil, apperror.Store(err, "failed to create department")
	}

	s.recordActivity(actorID, model.ActionCreateDepartment, &dept)

	res := mapDepartment(&dept)
	return &res, nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, actorID string, id string, req DepartmentRequest) (*DepartmentResponse, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid department id: %s", id)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("department name is required")
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("department not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load department")
	}

	dept.Name = req.Name
	dept.Description = req.Description
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, apperror.Store(err, "failed to update department")
	}

	s.recordActivity(actorID, model.ActionUpdateDepartment, dept)

	res := mapDepartment(dept)
	return &res, nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, actorID string, id string) error {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid department id: %s", id)
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("department not found: %s", id)
		}
		return apperror.Store(err, "failed to load department")
	}

	employees, err := s.repo.CountEmployees(ctx, deptID)
	if err != nil {
		return apperror.Store(err, "failed to check department references")
	}
	if employees > 0 {
		return apperror.Conflict("department %q has %d employees and cannot be deleted", dept.Name, employees)
	}

	items, err := s.repo.CountItems(ctx, deptID)
	if err != nil {
		return apperror.Store(err, "failed to check department references")
	}
	if items > 0 {
		return apperror.Conflict("department %q has %d items and cannot be deleted", dept.Name, items)
	}

	if err := s.repo.Delete(ctx, deptID); err != nil {
		return apperror.Store(err, "failed to delete department")
	}

	s.recordActivity(actorID, model.ActionDeleteDepartment, dept)
	return nil
}

func (s *departmentService) recordActivity(actorID, action string, dept *model.Department) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return
	}
	s.activity.Record(ActivityEntry{
		UserID:     actor,
		ActionType: action,
		EntityType: model.EntityDepartment,
		EntityID:   dept.ID.String(),
		Details:    map[string]interface{}{"name": dept.Name},
	})
}
