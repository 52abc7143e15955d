package repository

import (
	"context"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionFilter struct {
	ItemID     *uuid.UUID
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
	OpenOnly   bool
}

// TransactionRepository is the ledger: append on issue, close-in-place on
// return. "Open for employee X" is the canonical source for what an
// employee currently holds.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.ItemTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ItemTransaction, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ItemTransaction, error)
	FindOpenByItem(ctx context.Context, itemID uuid.UUID) (*model.ItemTransaction, error)
	ListOpenByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ItemTransaction, error)
	Close(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, returnedAt time.Time, notes string) error
	List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.ItemTransaction, int64, error)
	DetachUser(ctx context.Context, userID uuid.UUID) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.ItemTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemTransaction, error) {
	var tx model.ItemTransaction
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Employee").
		First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ItemTransaction, error) {
	var txs []model.ItemTransaction
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Employee").
		Where("id IN ?", ids).Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindOpenByItem returns the most recent open assignment for the item, or
// gorm.ErrRecordNotFound when the item is not out.
func (r *transactionRepository) FindOpenByItem(ctx context.Context, itemID uuid.UUID) (*model.ItemTransaction, error) {
	var tx model.ItemTransaction
	if err := GetDB(ctx, r.db).
		Where("item_id = ? AND issued_at IS NOT NULL AND returned_at IS NULL", itemID).
		Order("issued_at desc").First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) ListOpenByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ItemTransaction, error) {
	var txs []model.ItemTransaction
	if err := GetDB(ctx, r.db).Preload("Item").
		Where("employee_id = ? AND issued_at IS NOT NULL AND returned_at IS NULL", employeeID).
		Order("issued_at desc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Close stamps the return on the open row itself. No second row is inserted;
// the issue/return pair stays reconstructable from the one entry.
func (r *transactionRepository) Close(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, returnedAt time.Time, notes string) error {
	updates := map[string]interface{}{
		"returned_at":  returnedAt,
		"received_by":  receivedBy,
		"status_after": model.ItemStatusAvailable,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return GetDB(ctx, r.db).Model(&model.ItemTransaction{}).
		Where("id = ? AND returned_at IS NULL", id).
		Updates(updates).Error
}

func (r *transactionRepository) List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.ItemTransaction, int64, error) {
	var txs []model.ItemTransaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ItemTransaction{})
	if filter.ItemID != nil {
		db = db.Where("item_id = ?", *filter.ItemID)
	}
	if filter.EmployeeID != nil {
		db = db.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		db = db.Where("issued_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("issued_at < ?", *filter.To)
	}
	if filter.OpenOnly {
		db = db.Where("issued_at IS NOT NULL AND returned_at IS NULL")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Item").Preload("Employee").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// DetachUser nulls admin references so a user row can be removed without
// orphaning ledger history.
func (r *transactionRepository) DetachUser(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db).Model(&model.ItemTransaction{})
	if err := db.Where("issued_by = ?", userID).Update("issued_by", nil).Error; err != nil {
		return err
	}
	return GetDB(ctx, r.db).Model(&model.ItemTransaction{}).
		Where("received_by = ?", userID).Update("received_by", nil).Error
}
