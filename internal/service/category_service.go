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

type CategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	DepartmentID string `json:"department_id"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id,omitempty"`
}

type CategoryService interface {
	GetCategories(ctx context.Context, departmentID string) ([]CategoryResponse, error)
	CreateCategory(ctx context.Context, actorID string, req CategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, actorID string, id string, req CategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, actorID string, id string) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	activity ActivityLogger
}

func NewCategoryService(repo repository.CategoryRepository, activity ActivityLogger) CategoryService {
	return &categoryService{repo: repo, activity: activity}
}

func mapCategory(cat *model.ItemCategory) CategoryResponse {
	res := CategoryResponse{ID: cat.ID.String(), Name: cat.Name}
	if cat.DepartmentID != nil {
		res.DepartmentID = cat.DepartmentID.String()
	}
	return res
}

func parseCategoryDept(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation("invalid department id: %s", raw)
	}
	return &id, nil
}

func (s *categoryService) GetCategories(ctx context.Context, departmentID string) ([]CategoryResponse, error) {
	deptID, err := parseCategoryDept(departmentID)
	if err != nil {
		return nil, err
	}
	cats, err := s.repo.List(ctx, deptID)
	if err != nil {
		return nil, apperror.Store(err, "failed to list categories")
	}
	res := make([]CategoryResponse, 0, len(cats))
	for i := range cats {
		res = append(res, mapCategory(&cats[i]))
	}
	return res, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, actorID string, req CategoryRequest) (*CategoryResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("category name is required")
	}
	deptID, err := parseCategoryDept(req.DepartmentID)
	if err != nil {
		return nil, err
	}

	cat := model.ItemCategory{Name: req.Name, DepartmentID: deptID}
	if err := s.repo.Create(ctx, &cat); err != nil {
		return nil, apperror.Store(err, "failed to create category")
	}

	s.recordActivity(actorID, model.ActionCreateCategory, &cat)

	res := mapCategory(&cat)
	return &res, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actorID string, id string, req CategoryRequest) (*CategoryResponse, error) {
	catID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid category id: %s", id)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("category name is required")
	}
	deptID, err := parseCategoryDept(req.DepartmentID)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load category")
	}

	cat.Name = req.Name
	cat.DepartmentID = deptID
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, apperror.Store(err, "failed to update category")
	}

	s.recordActivity(actorID, model.ActionUpdateCategory, cat)

	res := mapCategory(cat)
	return &res, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actorID string, id string) error {
	catID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid category id: %s", id)
	}

	cat, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category not found: %s", id)
		}
		return apperror.Store(err, "failed to load category")
	}

	refs, err := s.repo.CountItems(ctx, catID)
	if err != nil {
		return apperror.Store(err, "failed to check category references")
	}
	if refs > 0 {
		return apperror.Conflict("category %q has %d items and cannot be deleted", cat.Name, refs)
	}

	if err := s.repo.Delete(ctx, catID); err != nil {
		return apperror.Store(err, "failed to delete category")
	}

	s.recordActivity(actorID, model.ActionDeleteCategory, cat)
	return nil
}

func (s *categoryService) recordActivity(actorID, action string, cat *model.ItemCategory) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return
	}
	s.activity.Record(ActivityEntry{
		UserID:     actor,
		ActionType: action,
		EntityType: model.EntityCategory,
		EntityID:   cat.ID.String(),
		Details:    map[string]interface{}{"name": cat.Name},
	})
}
