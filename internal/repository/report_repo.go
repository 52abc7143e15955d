package repository

import (
	"context"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	CreateDetail(ctx context.Context, detail *model.ReportDetail) error
	Update(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, page, limit int, status string) ([]model.Report, int64, error)
	DetachUser(ctx context.Context, userID uuid.UUID) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) CreateDetail(ctx context.Context, detail *model.ReportDetail) error {
	return GetDB(ctx, r.db).Create(detail).Error
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Save(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := GetDB(ctx, r.db).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByIDWithDetails loads the report plus exactly the transactions linked
// through its detail rows.
func (r *reportRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := GetDB(ctx, r.db).
		Preload("Details").
		Preload("Details.Transaction").
		Preload("Details.Transaction.Item").
		Preload("Details.Transaction.Employee").
		Preload("Department").
		First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, page, limit int, status string) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Report{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Department").Order("created_at desc").
		Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) DetachUser(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db).Model(&model.Report{})
	if err := db.Where("created_by = ?", userID).Update("created_by", nil).Error; err != nil {
		return err
	}
	return GetDB(ctx, r.db).Model(&model.Report{}).
		Where("approved_by = ?", userID).Update("approved_by", nil).Error
}
