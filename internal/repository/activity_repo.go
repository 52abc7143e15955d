package repository

import (
	"context"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityFilter struct {
	UserID     *uuid.UUID
	ActionType string
	EntityType string
}

type ActivityRepository interface {
	Log(ctx context.Context, entry *model.AdminActivity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AdminActivity, error)
	List(ctx context.Context, page, limit int, filter ActivityFilter) ([]model.AdminActivity, int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(ctx context.Context, entry *model.AdminActivity) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdminActivity, error) {
	var entry model.AdminActivity
	if err := GetDB(ctx, r.db).Preload("User").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *activityRepository) List(ctx context.Context, page, limit int, filter ActivityFilter) ([]model.AdminActivity, int64, error) {
	var entries []model.AdminActivity
	var total int64

	db := GetDB(ctx, r.db).Model(&model.AdminActivity{})
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActionType != "" {
		db = db.Where("action_type = ?", filter.ActionType)
	}
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("User").Order("created_at desc").
		Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *activityRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.AdminActivity{}).Error
}
