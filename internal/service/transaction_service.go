package service

import (
	"context"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
)

type TransactionResponse struct {
	ID           string  `json:"id"`
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name,omitempty"`
	SerialNumber string  `json:"serial_number,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	IssuedBy     *string `json:"issued_by"`
	ReceivedBy   *string `json:"received_by"`
	IssuedAt     *string `json:"issued_at"`
	ReturnedAt   *string `json:"returned_at"`
	StatusBefore string  `json:"status_before"`
	StatusAfter  string  `json:"status_after"`
	Notes        string  `json:"notes"`
	Open         bool    `json:"open"`
}

type TransactionListQuery struct {
	ItemID     string
	EmployeeID string
	From       string // RFC3339 or YYYY-MM-DD, inclusive
	To         string // exclusive
	OpenOnly   bool
}

type TransactionService interface {
	GetTransactions(ctx context.Context, page, limit int, query TransactionListQuery) ([]TransactionResponse, int64, error)
	GetTransaction(ctx context.Context, id string) (*TransactionResponse, error)
}

type transactionService struct {
	repo repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

func mapTransaction(t *model.ItemTransaction) TransactionResponse {
	res := TransactionResponse{
		ID:           t.ID.String(),
		ItemID:       t.ItemID.String(),
		EmployeeID:   t.EmployeeID.String(),
		StatusBefore: t.StatusBefore,
		StatusAfter:  t.StatusAfter,
		Notes:        t.Notes,
		Open:         t.Open(),
	}
	if t.Item != nil {
		res.ItemName = t.Item.Name
		res.SerialNumber = t.Item.SerialNumber
	}
	if t.Employee != nil {
		res.EmployeeName = t.Employee.FullName()
	}
	if t.IssuedBy != nil {
		v := t.IssuedBy.String()
		res.IssuedBy = &v
	}
	if t.ReceivedBy != nil {
		v := t.ReceivedBy.String()
		res.ReceivedBy = &v
	}
	if t.IssuedAt != nil {
		v := t.IssuedAt.Format(time.RFC3339)
		res.IssuedAt = &v
	}
	if t.ReturnedAt != nil {
		v := t.ReturnedAt.Format(time.RFC3339)
		res.ReturnedAt = &v
	}
	return res
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperror.Validation("invalid date: %s", raw)
	}
	return &t, nil
}

func (s *transactionService) GetTransactions(ctx context.Context, page, limit int, query TransactionListQuery) ([]TransactionResponse, int64, error) {
	filter := repository.TransactionFilter{OpenOnly: query.OpenOnly}

	if query.ItemID != "" {
		id, err := uuid.Parse(query.ItemID)
		if err != nil {
			return nil, 0, apperror.Validation("invalid item id: %s", query.ItemID)
		}
		filter.ItemID = &id
	}
	if query.EmployeeID != "" {
		id, err := uuid.Parse(query.EmployeeID)
		if err != nil {
			return nil, 0, apperror.Validation("invalid employee id: %s", query.EmployeeID)
		}
		filter.EmployeeID = &id
	}

	var err error
	if filter.From, err = parseDate(query.From); err != nil {
		return nil, 0, err
	}
	if filter.To, err = parseDate(query.To); err != nil {
		return nil, 0, err
	}

	txs, total, err := s.repo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list transactions")
	}

	res := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		res = append(res, mapTransaction(&txs[i]))
	}
	return res, total, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*TransactionResponse, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid transaction id: %s", id)
	}
	tx, err := s.repo.FindByID(ctx, txID)
	if err != nil {
		return nil, apperror.NotFound("transaction not found: %s", id)
	}
	res := mapTransaction(tx)
	return &res, nil
}
