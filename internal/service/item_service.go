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

// DTOs
type CreateItemRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryID   string `json:"category_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	SerialNumber string `json:"serial_number" binding:"required"`
	Condition    string `json:"condition"`
}

type UpdateItemRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryID   string `json:"category_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	SerialNumber string `json:"serial_number" binding:"required"`
	Condition    string `json:"condition"`
}

type UpdateItemStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	Condition string `json:"condition"`
}

type ItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	DepartmentID string `json:"department_id"`
	Department   string `json:"department,omitempty"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
	Condition    string `json:"condition"`
}

type ItemListQuery struct {
	DepartmentID string
	CategoryID   string
	Status       string
	Search       string
}

// ItemService owns item CRUD and the manual status changes administrators
// make outside the issue/receive workflow. available<->in_use transitions
// are the workflow's alone.
type ItemService interface {
	GetItems(ctx context.Context, page, limit int, query ItemListQuery) ([]ItemResponse, int64, error)
	GetItem(ctx context.Context, id string) (*ItemResponse, error)
	CreateItem(ctx context.Context, actorID string, req CreateItemRequest) (*ItemResponse, error)
	UpdateItem(ctx context.Context, actorID string, id string, req UpdateItemRequest) (*ItemResponse, error)
	UpdateItemStatus(ctx context.Context, actorID string, id string, req UpdateItemStatusRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, actorID string, id string) error
}

type itemService struct {
	itemRepo  repository.ItemRepository
	txRepo    repository.TransactionRepository
	txManager repository.TransactionManager
	activity  ActivityLogger
	hub       Broadcaster
}

func NewItemService(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
	txManager repository.TransactionManager,
	activity ActivityLogger,
	hub Broadcaster,
) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		txRepo:    txRepo,
		txManager: txManager,
		activity:  activity,
		hub:       hub,
	}
}

func mapItem(item *model.Item) ItemResponse {
	res := ItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		CategoryID:   item.CategoryID.String(),
		DepartmentID: item.DepartmentID.String(),
		SerialNumber: item.SerialNumber,
		Status:       item.Status,
		Condition:    item.Condition,
	}
	if item.Category != nil {
		res.CategoryName = item.Category.Name
	}
	if item.Department != nil {
		res.Department = item.Department.Name
	}
	return res
}

func validateItemFields(name, categoryID, departmentID, serial string) (uuid.UUID, uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, uuid.Nil, apperror.Validation("item name is required")
	}
	if strings.TrimSpace(serial) == "" {
		return uuid.Nil, uuid.Nil, apperror.Validation("serial number is required")
	}
	catID, err := uuid.Parse(categoryID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Validation("invalid category id: %s", categoryID)
	}
	deptID, err := uuid.Parse(departmentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Validation("invalid department id: %s", departmentID)
	}
	return catID, deptID, nil
}

func (s *itemService) GetItems(ctx context.Context, page, limit int, query ItemListQuery) ([]ItemResponse, int64, error) {
	filter := repository.ItemFilter{Status: query.Status, Search: query.Search}
	if query.DepartmentID != "" {
		id, err := uuid.Parse(query.DepartmentID)
		if err != nil {
			return nil, 0, apperror.Validation("invalid department id: %s", query.DepartmentID)
		}
		filter.DepartmentID = &id
	}
	if query.CategoryID != "" {
		id, err := uuid.Parse(query.CategoryID)
		if err != nil {
			return nil, 0, apperror.Validation("invalid category id: %s", query.CategoryID)
		}
		filter.CategoryID = &id
	}

	items, total, err := s.itemRepo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list items")
	}

	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, mapItem(&items[i]))
	}
	return res, total, nil
}

func (s *itemService) GetItem(ctx context.Context, id string) (*ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid item id: %s", id)
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("item not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load item")
	}
	res := mapItem(item)
	return &res, nil
}

func (s *itemService) CreateItem(ctx context.Context, actorID string, req CreateItemRequest) (*ItemResponse, error) {
	catID, deptID, err := validateItemFields(req.Name, req.CategoryID, req.DepartmentID, req.SerialNumber)
	if err != nil {
		return nil, err
	}

	var addedBy *uuid.UUID
	if parsed, parseErr := uuid.Parse(actorID); parseErr == nil {
		addedBy = &parsed
	}

	item := model.Item{
		Name:         req.Name,
		CategoryID:   catID,
		DepartmentID: deptID,
		SerialNumber: req.SerialNumber,
		Status:       model.ItemStatusAvailable,
		Condition:    req.Condition,
		AddedBy:      addedBy,
	}
	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return nil, apperror.Store(err, "failed to create item")
	}

	s.recordItemActivity(actorID, model.ActionCreateItem, &item, nil)

	res := mapItem(&item)
	return &res, nil
}

func (s *itemService) UpdateItem(ctx context.Context, actorID string, id string, req UpdateItemRequest) (*ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid item id: %s", id)
	}
	catID, deptID, err := validateItemFields(req.Name, req.CategoryID, req.DepartmentID, req.SerialNumber)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("item not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load item")
	}

	item.Name = req.Name
	item.CategoryID = catID
	item.DepartmentID = deptID
	item.SerialNumber = req.SerialNumber
	item.Condition = req.Condition

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, apperror.Store(err, "failed to update item")
	}

	s.recordItemActivity(actorID, model.ActionUpdateItem, item, nil)

	res := mapItem(item)
	return &res, nil
}

// UpdateItemStatus handles the manual lifecycle changes: damaged,
// under_repair and discarded may be set at any time (a damaged item stays
// damaged even while open-assigned); available only when no open
// assignment exists; in_use is never set manually.
func (s *itemService) UpdateItemStatus(ctx context.Context, actorID string, id string, req UpdateItemStatusRequest) (*ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid item id: %s", id)
	}
	if !model.ManualStatuses[req.Status] {
		return nil, apperror.Validation("status %q cannot be set manually", req.Status)
	}

	var item *model.Item
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		item, findErr = s.itemRepo.FindByIDForUpdate(txCtx, itemID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("item not found: %s", id)
			}
			return apperror.Store(findErr, "failed to load item")
		}

		if req.Status == model.ItemStatusAvailable {
			if _, openErr := s.txRepo.FindOpenByItem(txCtx, itemID); openErr == nil {
				return apperror.Conflict("item %q still has an open assignment; receive it first", item.Name)
			} else if !errors.Is(openErr, gorm.ErrRecordNotFound) {
				return apperror.Store(openErr, "failed to check open assignment")
			}
		}

		item.Status = req.Status
		if req.Condition != "" {
			item.Condition = req.Condition
		}
		if updErr := s.itemRepo.Update(txCtx, item); updErr != nil {
			return apperror.Store(updErr, "failed to update item status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordItemActivity(actorID, model.ActionUpdateItem, item, map[string]interface{}{
		"status": req.Status,
	})
	if s.hub != nil {
		s.hub.Publish("item_status_changed", map[string]interface{}{
			"item_id": item.ID.String(),
			"status":  item.Status,
		})
	}

	res := mapItem(item)
	return &res, nil
}

func (s *itemService) DeleteItem(ctx context.Context, actorID string, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid item id: %s", id)
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("item not found: %s", id)
		}
		return apperror.Store(err, "failed to load item")
	}

	refs, err := s.itemRepo.CountTransactions(ctx, itemID)
	if err != nil {
		return apperror.Store(err, "failed to check item references")
	}
	if refs > 0 {
		return apperror.Conflict("item %q has %d ledger entries and cannot be deleted", item.Name, refs)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return apperror.Store(err, "failed to delete item")
	}

	s.recordItemActivity(actorID, model.ActionDeleteItem, item, nil)
	return nil
}

func (s *itemService) recordItemActivity(actorID, action string, item *model.Item, extra map[string]interface{}) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return
	}
	details := map[string]interface{}{
		"item_name":     item.Name,
		"serial_number": item.SerialNumber,
	}
	for k, v := range extra {
		details[k] = v
	}
	s.activity.Record(ActivityEntry{
		UserID:     actor,
		ActionType: action,
		EntityType: model.EntityItem,
		EntityID:   item.ID.String(),
		Details:    details,
	})
}
