package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReportRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	ReportType     string   `json:"report_type" binding:"required,oneof=monthly weekly custom"`
	DepartmentID   string   `json:"department_id"`
	StartDate      string   `json:"start_date" binding:"required"`
	EndDate        string   `json:"end_date" binding:"required"`
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=1"`
}

type RejectReportRequest struct {
	Reason string `json:"reason"`
}

type ReportResponse struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ReportType      string                `json:"report_type"`
	DepartmentID    string                `json:"department_id,omitempty"`
	Department      string                `json:"department,omitempty"`
	Status          string                `json:"status"`
	CreatedBy       string                `json:"created_by,omitempty"`
	ApprovedBy      string                `json:"approved_by,omitempty"`
	ApprovedAt      string                `json:"approved_at,omitempty"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	StartDate       string                `json:"start_date"`
	EndDate         string                `json:"end_date"`
	Transactions    []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

// ReportService snapshots chosen ledger entries into an approvable report.
// It reads transactions and never mutates item or ledger state.
type ReportService interface {
	CreateReport(ctx context.Context, actorID string, req CreateReportRequest) (*ReportResponse, error)
	GetReport(ctx context.Context, id string) (*ReportResponse, error)
	GetReports(ctx context.Context, page, limit int, status string) ([]ReportResponse, int64, error)
	SubmitReport(ctx context.Context, actorID string, id string) (*ReportResponse, error)
	ApproveReport(ctx context.Context, actorID string, id string) (*ReportResponse, error)
	RejectReport(ctx context.Context, actorID string, id string, reason string) (*ReportResponse, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	txRepo     repository.TransactionRepository
	txManager  repository.TransactionManager
	activity   ActivityLogger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	txRepo repository.TransactionRepository,
	txManager repository.TransactionManager,
	activity ActivityLogger,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		txRepo:     txRepo,
		txManager:  txManager,
		activity:   activity,
	}
}

func mapReport(r *model.Report) ReportResponse {
	res := ReportResponse{
		ID:              r.ID.String(),
		Title:           r.Title,
		Description:     r.Description,
		ReportType:      r.ReportType,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.DepartmentID != nil {
		res.DepartmentID = r.DepartmentID.String()
	}
	if r.Department != nil {
		res.Department = r.Department.Name
	}
	if r.CreatedBy != nil {
		res.CreatedBy = r.CreatedBy.String()
	}
	if r.ApprovedBy != nil {
		res.ApprovedBy = r.ApprovedBy.String()
	}
	if r.ApprovedAt != nil {
		res.ApprovedAt = r.ApprovedAt.Format(time.RFC3339)
	}
	for i := range r.Details {
		if r.Details[i].Transaction != nil {
			res.Transactions = append(res.Transactions, mapTransaction(r.Details[i].Transaction))
		}
	}
	return res
}

func (s *reportService) CreateReport(ctx context.Context, actorID string, req CreateReportRequest) (*ReportResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid actor id")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.Validation("report title is required")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil || startDate == nil {
		return nil, apperror.Validation("invalid start date: %s", req.StartDate)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil || endDate == nil {
		return nil, apperror.Validation("invalid end date: %s", req.EndDate)
	}
	if endDate.Before(*startDate) {
		return nil, apperror.Validation("end date precedes start date")
	}

	var deptID *uuid.UUID
	if req.DepartmentID != "" {
		id, parseErr := uuid.Parse(req.DepartmentID)
		if parseErr != nil {
			return nil, apperror.Validation("invalid department id: %s", req.DepartmentID)
		}
		deptID = &id
	}

	txIDs := make([]uuid.UUID, 0, len(req.TransactionIDs))
	for _, raw := range req.TransactionIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, apperror.Validation("invalid transaction id: %s", raw)
		}
		txIDs = append(txIDs, id)
	}

	// Every referenced ledger entry must exist before the snapshot is taken.
	found, err := s.txRepo.FindByIDs(ctx, txIDs)
	if err != nil {
		return nil, apperror.Store(err, "failed to load transactions")
	}
	if len(found) != len(txIDs) {
		return nil, apperror.Validation("report references %d transactions but only %d exist",
			len(txIDs), len(found))
	}

	report := model.Report{
		Title:        req.Title,
		Description:  req.Description,
		ReportType:   req.ReportType,
		DepartmentID: deptID,
		CreatedBy:    &actor,
		StartDate:    *startDate,
		EndDate:      *endDate,
		Status:       model.ReportStatusDraft,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.reportRepo.Create(txCtx, &report); createErr != nil {
			return apperror.Store(createErr, "failed to create report")
		}
		for _, txID := range txIDs {
			detail := model.ReportDetail{ReportID: report.ID, TransactionID: txID}
			if detailErr := s.reportRepo.CreateDetail(txCtx, &detail); detailErr != nil {
				return apperror.Store(detailErr, "failed to link transaction %s", txID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(actor, model.ActionCreateReport, &report, map[string]interface{}{
		"transaction_count": len(txIDs),
	})

	res := mapReport(&report)
	return &res, nil
}

func (s *reportService) GetReport(ctx context.Context, id string) (*ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid report id: %s", id)
	}
	report, err := s.reportRepo.FindByIDWithDetails(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("report not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load report")
	}
	res := mapReport(report)
	return &res, nil
}

func (s *reportService) GetReports(ctx context.Context, page, limit int, status string) ([]ReportResponse, int64, error) {
	reports, total, err := s.reportRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list reports")
	}
	res := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		res = append(res, mapReport(&reports[i]))
	}
	return res, total, nil
}

func (s *reportService) transition(ctx context.Context, actorID string, id string, fromStatuses []string, apply func(*model.Report, uuid.UUID)) (*model.Report, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid actor id")
	}
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid report id: %s", id)
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("report not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load report")
	}

	allowed := false
	for _, from := range fromStatuses {
		if report.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperror.Conflict("report is %s and cannot be transitioned", report.Status)
	}

	apply(report, actor)
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, apperror.Store(err, "failed to update report")
	}
	return report, nil
}

func (s *reportService) SubmitReport(ctx context.Context, actorID string, id string) (*ReportResponse, error) {
	report, err := s.transition(ctx, actorID, id, []string{model.ReportStatusDraft}, func(r *model.Report, _ uuid.UUID) {
		r.Status = model.ReportStatusSubmitted
	})
	if err != nil {
		return nil, err
	}
	res := mapReport(report)
	return &res, nil
}

func (s *reportService) ApproveReport(ctx context.Context, actorID string, id string) (*ReportResponse, error) {
	now := time.Now()
	report, err := s.transition(ctx, actorID, id, []string{model.ReportStatusSubmitted}, func(r *model.Report, actor uuid.UUID) {
		r.Status = model.ReportStatusApproved
		r.ApprovedBy = &actor
		r.ApprovedAt = &now
	})
	if err != nil {
		return nil, err
	}

	if actor, parseErr := uuid.Parse(actorID); parseErr == nil {
		s.recordActivity(actor, model.ActionApproveReport, report, nil)
	}
	res := mapReport(report)
	return &res, nil
}

func (s *reportService) RejectReport(ctx context.Context, actorID string, id string, reason string) (*ReportResponse, error) {
	report, err := s.transition(ctx, actorID, id, []string{model.ReportStatusSubmitted}, func(r *model.Report, actor uuid.UUID) {
		r.Status = model.ReportStatusRejected
		r.ApprovedBy = &actor
		r.RejectionReason = reason
	})
	if err != nil {
		return nil, err
	}

	if actor, parseErr := uuid.Parse(actorID); parseErr == nil {
		s.recordActivity(actor, model.ActionRejectReport, report, map[string]interface{}{
			"reason": reason,
		})
	}
	res := mapReport(report)
	return &res, nil
}

func (s *reportService) recordActivity(actor uuid.UUID, action string, report *model.Report, extra map[string]interface{}) {
	details := map[string]interface{}{"title": report.Title}
	for k, v := range extra {
		details[k] = v
	}
	s.activity.Record(ActivityEntry{
		UserID:     actor,
		ActionType: action,
		EntityType: model.EntityReport,
		EntityID:   report.ID.String(),
		Details:    details,
	})
}
