package service

import (
	"context"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"gorm.io/gorm"
)

type DashboardStats struct {
	ItemsByStatus   map[string]int64 `json:"items_by_status"`
	TotalItems      int64            `json:"total_items"`
	OpenAssignments int64            `json:"open_assignments"`
	Employees       int64            `json:"employees"`
	Departments     int64            `json:"departments"`
	PendingReports  int64            `json:"pending_reports"`
}

type StatisticsService interface {
	GetDashboard(ctx context.Context) (*DashboardStats, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

func (s *statisticsService) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{ItemsByStatus: map[string]int64{}}
	db := s.db.WithContext(ctx)

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if err := db.Model(&model.Item{}).
		Select("status, count(*) as count").
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, apperror.Store(err, "failed to count items")
	}
	for _, row := range byStatus {
		stats.ItemsByStatus[row.Status] = row.Count
		stats.TotalItems += row.Count
	}

	if err := db.Model(&model.ItemTransaction{}).
		Where("issued_at IS NOT NULL AND returned_at IS NULL").
		Count(&stats.OpenAssignments).Error; err != nil {
		return nil, apperror.Store(err, "failed to count open assignments")
	}
	if err := db.Model(&model.Employee{}).Count(&stats.Employees).Error; err != nil {
		return nil, apperror.Store(err, "failed to count employees")
	}
	if err := db.Model(&model.Department{}).Count(&stats.Departments).Error; err != nil {
		return nil, apperror.Store(err, "failed to count departments")
	}
	if err := db.Model(&model.Report{}).
		Where("status = ?", model.ReportStatusSubmitted).
		Count(&stats.PendingReports).Error; err != nil {
		return nil, apperror.Store(err, "failed to count pending reports")
	}

	return stats, nil
}
