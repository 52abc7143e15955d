package service

import (
	"context"
	"errors"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type IssueRequest struct {
	EmployeeID string   `json:"employee_id" binding:"required"`
	ItemIDs    []string `json:"item_ids" binding:"required,min=1"`
	Notes      string   `json:"notes"`
}

type ReceiveRequest struct {
	EmployeeID string   `json:"employee_id" binding:"required"`
	ItemIDs    []string `json:"item_ids" binding:"required,min=1"`
	Notes      string   `json:"notes"`
}

type BatchResult struct {
	EmployeeID     string   `json:"employee_id"`
	TransactionIDs []string `json:"transaction_ids"`
	ItemCount      int      `json:"item_count"`
}

// Broadcaster pushes inventory events to connected dashboard clients.
// Failures are the hub's problem, never the workflow's.
type Broadcaster interface {
	Publish(event string, data map[string]interface{})
}

// OrderService is the issue/receive workflow: the only component allowed to
// move items between available and in_use. Each batch runs in a single
// database transaction with the item rows locked, so a batch either fully
// applies or not at all, and two concurrent issues of one item cannot both
// commit.
type OrderService interface {
	Issue(ctx context.Context, actorID string, req IssueRequest) (*BatchResult, error)
	Receive(ctx context.Context, actorID string, req ReceiveRequest) (*BatchResult, error)
	OpenAssignments(ctx context.Context, employeeID string) ([]TransactionResponse, error)
}

type orderService struct {
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	employeeRepo repository.EmployeeRepository
	txManager    repository.TransactionManager
	activity     ActivityLogger
	hub          Broadcaster
}

func NewOrderService(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
	employeeRepo repository.EmployeeRepository,
	txManager repository.TransactionManager,
	activity ActivityLogger,
	hub Broadcaster,
) OrderService {
	return &orderService{
		itemRepo:     itemRepo,
		txRepo:       txRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
		activity:     activity,
		hub:          hub,
	}
}

func (s *orderService) parseBatch(actorID, employeeID string, itemIDs []string) (uuid.UUID, uuid.UUID, []uuid.UUID, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, apperror.Unauthorized("invalid actor id")
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, apperror.Validation("invalid employee id: %s", employeeID)
	}
	if len(itemIDs) == 0 {
		return uuid.Nil, uuid.Nil, nil, apperror.Validation("at least one item must be selected")
	}
	ids := make([]uuid.UUID, 0, len(itemIDs))
	for _, raw := range itemIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return uuid.Nil, uuid.Nil, nil, apperror.Validation("invalid item id: %s", raw)
		}
		ids = append(ids, id)
	}
	return actor, empID, ids, nil
}

func (s *orderService) Issue(ctx context.Context, actorID string, req IssueRequest) (*BatchResult, error) {
	actor, empID, itemIDs, err := s.parseBatch(actorID, req.EmployeeID, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found: %s", req.EmployeeID)
		}
		return nil, apperror.Store(err, "failed to load employee")
	}

	now := time.Now()
	issued := make([]model.ItemTransaction, 0, len(itemIDs))
	issuedItems := make([]*model.Item, 0, len(itemIDs))

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, itemID := range itemIDs {
			// Lock the row so the status check holds until commit.
			item, findErr := s.itemRepo.FindByIDForUpdate(txCtx, itemID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperror.NotFound("item not found: %s", itemID)
				}
				return apperror.Store(findErr, "failed to load item %s", itemID)
			}
			if item.Status != model.ItemStatusAvailable {
				return apperror.Conflict("item %q (%s) is not available: status is %s",
					item.Name, item.SerialNumber, item.Status)
			}
			if item.DepartmentID != employee.DepartmentID {
				return apperror.Conflict("item %q (%s) belongs to a different department than %s",
					item.Name, item.SerialNumber, employee.FullName())
			}

			entry := model.ItemTransaction{
				ItemID:       item.ID,
				EmployeeID:   employee.ID,
				IssuedBy:     &actor,
				IssuedAt:     &now,
				StatusBefore: item.Status,
				StatusAfter:  model.ItemStatusInUse,
				Notes:        req.Notes,
			}
			if createErr := s.txRepo.Create(txCtx, &entry); createErr != nil {
				return apperror.Store(createErr, "failed to record issue for item %q", item.Name)
			}
			issued = append(issued, entry)
			issuedItems = append(issuedItems, item)
		}

		if updErr := s.itemRepo.UpdateStatus(txCtx, itemIDs, model.ItemStatusInUse); updErr != nil {
			return apperror.Store(updErr, "failed to update item statuses")
		}
		return nil
	})
	if err != nil {
		issued = nil
		return nil, err
	}

	// Audit + live updates only after the batch committed.
	for i, item := range issuedItems {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionIssueItem,
			EntityType: model.EntityItem,
			EntityID:   item.ID.String(),
			Details: map[string]interface{}{
				"item_name":      item.Name,
				"serial_number":  item.SerialNumber,
				"employee_id":    employee.ID.String(),
				"employee_name":  employee.FullName(),
				"transaction_id": issued[i].ID.String(),
				"notes":          req.Notes,
			},
		})
	}
	if s.hub != nil {
		s.hub.Publish("items_issued", map[string]interface{}{
			"employee_id": employee.ID.String(),
			"item_count":  len(issuedItems),
		})
	}

	result := &BatchResult{EmployeeID: employee.ID.String(), ItemCount: len(issued)}
	for _, entry := range issued {
		result.TransactionIDs = append(result.TransactionIDs, entry.ID.String())
	}
	return result, nil
}

func (s *orderService) Receive(ctx context.Context, actorID string, req ReceiveRequest) (*BatchResult, error) {
	actor, empID, itemIDs, err := s.parseBatch(actorID, req.EmployeeID, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found: %s", req.EmployeeID)
		}
		return nil, apperror.Store(err, "failed to load employee")
	}

	now := time.Now()
	closed := make([]uuid.UUID, 0, len(itemIDs))
	receivedItems := make([]*model.Item, 0, len(itemIDs))

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		toAvailable := make([]uuid.UUID, 0, len(itemIDs))

		for _, itemID := range itemIDs {
			item, findErr := s.itemRepo.FindByIDForUpdate(txCtx, itemID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperror.NotFound("item not found: %s", itemID)
				}
				return apperror.Store(findErr, "failed to load item %s", itemID)
			}

			open, openErr := s.txRepo.FindOpenByItem(txCtx, itemID)
			if openErr != nil {
				if errors.Is(openErr, gorm.ErrRecordNotFound) {
					return apperror.Conflict("item %q (%s) has no open assignment",
						item.Name, item.SerialNumber)
				}
				return apperror.Store(openErr, "failed to load open assignment for item %q", item.Name)
			}
			if open.EmployeeID != employee.ID {
				return apperror.Conflict("item %q (%s) is not assigned to %s",
					item.Name, item.SerialNumber, employee.FullName())
			}

			if closeErr := s.txRepo.Close(txCtx, open.ID, actor, now, req.Notes); closeErr != nil {
				return apperror.Store(closeErr, "failed to close assignment for item %q", item.Name)
			}
			closed = append(closed, open.ID)
			receivedItems = append(receivedItems, item)

			// Items moved to damaged/under_repair while out keep that
			// status on return; only in_use flips back.
			if item.Status == model.ItemStatusInUse {
				toAvailable = append(toAvailable, item.ID)
			}
		}

		if len(toAvailable) > 0 {
			if updErr := s.itemRepo.UpdateStatus(txCtx, toAvailable, model.ItemStatusAvailable); updErr != nil {
				return apperror.Store(updErr, "failed to update item statuses")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, item := range receivedItems {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionReceiveItem,
			EntityType: model.EntityItem,
			EntityID:   item.ID.String(),
			Details: map[string]interface{}{
				"item_name":      item.Name,
				"serial_number":  item.SerialNumber,
				"employee_id":    employee.ID.String(),
				"employee_name":  employee.FullName(),
				"transaction_id": closed[i].String(),
				"notes":          req.Notes,
			},
		})
	}
	if s.hub != nil {
		s.hub.Publish("items_received", map[string]interface{}{
			"employee_id": employee.ID.String(),
			"item_count":  len(receivedItems),
		})
	}

	result := &BatchResult{EmployeeID: employee.ID.String(), ItemCount: len(closed)}
	for _, id := range closed {
		result.TransactionIDs = append(result.TransactionIDs, id.String())
	}
	return result, nil
}

// OpenAssignments lists what an employee currently holds; the receive
// screen is driven by this.
func (s *orderService) OpenAssignments(ctx context.Context, employeeID string) ([]TransactionResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperror.Validation("invalid employee id: %s", employeeID)
	}
	txs, err := s.txRepo.ListOpenByEmployee(ctx, empID)
	if err != nil {
		return nil, apperror.Store(err, "failed to list open assignments")
	}
	res := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		res = append(res, mapTransaction(&txs[i]))
	}
	return res, nil
}
