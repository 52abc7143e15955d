package repository

import (
	"context"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, cat *model.ItemCategory) error
	Update(ctx context.Context, cat *model.ItemCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ItemCategory, error)
	List(ctx context.Context, departmentID *uuid.UUID) ([]model.ItemCategory, error)
	CountItems(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, cat *model.ItemCategory) error {
	return GetDB(ctx, r.db).Create(cat).Error
}

func (r *categoryRepository) Update(ctx context.Context, cat *model.ItemCategory) error {
	return GetDB(ctx, r.db).Save(cat).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ItemCategory{}).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemCategory, error) {
	var cat model.ItemCategory
	if err := GetDB(ctx, r.db).First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepository) List(ctx context.Context, departmentID *uuid.UUID) ([]model.ItemCategory, error) {
	var cats []model.ItemCategory
	db := GetDB(ctx, r.db)
	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	}
	if err := db.Order("name asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *categoryRepository) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Item{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
