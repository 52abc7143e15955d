package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository doubles for service tests.

type mockItemRepo struct {
	items    map[uuid.UUID]model.Item
	txCounts map[uuid.UUID]int64
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{
		items:    make(map[uuid.UUID]model.Item),
		txCounts: make(map[uuid.UUID]int64),
	}
}

func (m *mockItemRepo) dump() map[uuid.UUID]model.Item {
	out := make(map[uuid.UUID]model.Item, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

func (m *mockItemRepo) load(state map[uuid.UUID]model.Item) {
	m.items = state
}

func (m *mockItemRepo) Create(ctx context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	m.items[item.ID] = *item
	return nil
}

func (m *mockItemRepo) Update(ctx context.Context, item *model.Item) error {
	m.items[item.ID] = *item
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (m *mockItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return m.FindByID(ctx, id)
}

func (m *mockItemRepo) List(ctx context.Context, page, limit int, filter repository.ItemFilter) ([]model.Item, int64, error) {
	var out []model.Item
	for _, item := range m.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (m *mockItemRepo) UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error {
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			item.Status = status
			m.items[id] = item
		}
	}
	return nil
}

func (m *mockItemRepo) CountTransactions(ctx context.Context, id uuid.UUID) (int64, error) {
	return m.txCounts[id], nil
}

type mockTransactionRepo struct {
	txs map[uuid.UUID]model.ItemTransaction
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{txs: make(map[uuid.UUID]model.ItemTransaction)}
}

func (m *mockTransactionRepo) dump() map[uuid.UUID]model.ItemTransaction {
	out := make(map[uuid.UUID]model.ItemTransaction, len(m.txs))
	for k, v := range m.txs {
		out[k] = v
	}
	return out
}

func (m *mockTransactionRepo) load(state map[uuid.UUID]model.ItemTransaction) {
	m.txs = state
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *model.ItemTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	m.txs[tx.ID] = *tx
	return nil
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemTransaction, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &tx, nil
}

func (m *mockTransactionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ItemTransaction, error) {
	var out []model.ItemTransaction
	for _, id := range ids {
		if tx, ok := m.txs[id]; ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) FindOpenByItem(ctx context.Context, itemID uuid.UUID) (*model.ItemTransaction, error) {
	for _, tx := range m.txs {
		if tx.ItemID == itemID && tx.Open() {
			found := tx
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTransactionRepo) ListOpenByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ItemTransaction, error) {
	var out []model.ItemTransaction
	for _, tx := range m.txs {
		if tx.EmployeeID == employeeID && tx.Open() {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) Close(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, returnedAt time.Time, notes string) error {
	tx, ok := m.txs[id]
	if !ok || tx.ReturnedAt != nil {
		return nil
	}
	tx.ReturnedAt = &returnedAt
	tx.ReceivedBy = &receivedBy
	tx.StatusAfter = model.ItemStatusAvailable
	if notes != "" {
		tx.Notes = notes
	}
	m.txs[id] = tx
	return nil
}

func (m *mockTransactionRepo) List(ctx context.Context, page, limit int, filter repository.TransactionFilter) ([]model.ItemTransaction, int64, error) {
	var out []model.ItemTransaction
	for _, tx := range m.txs {
		if filter.OpenOnly && !tx.Open() {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

func (m *mockTransactionRepo) DetachUser(ctx context.Context, userID uuid.UUID) error {
	for id, tx := range m.txs {
		if tx.IssuedBy != nil && *tx.IssuedBy == userID {
			tx.IssuedBy = nil
		}
		if tx.ReceivedBy != nil && *tx.ReceivedBy == userID {
			tx.ReceivedBy = nil
		}
		m.txs[id] = tx
	}
	return nil
}

type mockEmployeeRepo struct {
	employees   map[uuid.UUID]model.Employee
	linkedUsers map[uuid.UUID]bool
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees:   make(map[uuid.UUID]model.Employee),
		linkedUsers: make(map[uuid.UUID]bool),
	}
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	m.employees[emp.ID] = *emp
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	m.employees[emp.ID] = *emp
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &emp, nil
}

func (m *mockEmployeeRepo) List(ctx context.Context, page, limit int, departmentID *uuid.UUID, search string) ([]model.Employee, int64, error) {
	var out []model.Employee
	for _, emp := range m.employees {
		if departmentID != nil && emp.DepartmentID != *departmentID {
			continue
		}
		out = append(out, emp)
	}
	return out, int64(len(out)), nil
}

func (m *mockEmployeeRepo) HasLinkedUser(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.linkedUsers[id], nil
}

type mockReportRepo struct {
	reports map[uuid.UUID]model.Report
	details []model.ReportDetail
	txRepo  *mockTransactionRepo
}

func newMockReportRepo(txRepo *mockTransactionRepo) *mockReportRepo {
	return &mockReportRepo{reports: make(map[uuid.UUID]model.Report), txRepo: txRepo}
}

func (m *mockReportRepo) Create(ctx context.Context, report *model.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()
	m.reports[report.ID] = *report
	return nil
}

func (m *mockReportRepo) CreateDetail(ctx context.Context, detail *model.ReportDetail) error {
	if detail.ID == uuid.Nil {
		detail.ID = uuid.New()
	}
	m.details = append(m.details, *detail)
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *model.Report) error {
	m.reports[report.ID] = *report
	return nil
}

func (m *mockReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &report, nil
}

func (m *mockReportRepo) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, detail := range m.details {
		if detail.ReportID != id {
			continue
		}
		if tx, txOk := m.txRepo.txs[detail.TransactionID]; txOk {
			loaded := tx
			detail.Transaction = &loaded
		}
		report.Details = append(report.Details, detail)
	}
	return &report, nil
}

func (m *mockReportRepo) List(ctx context.Context, page, limit int, status string) ([]model.Report, int64, error) {
	var out []model.Report
	for _, report := range m.reports {
		if status != "" && report.Status != status {
			continue
		}
		out = append(out, report)
	}
	return out, int64(len(out)), nil
}

func (m *mockReportRepo) DetachUser(ctx context.Context, userID uuid.UUID) error {
	for id, report := range m.reports {
		if report.CreatedBy != nil && *report.CreatedBy == userID {
			report.CreatedBy = nil
		}
		if report.ApprovedBy != nil && *report.ApprovedBy == userID {
			report.ApprovedBy = nil
		}
		m.reports[id] = report
	}
	return nil
}

// mockTxManager runs fn inline. When snapshot is set, a failing fn restores
// the captured state, mirroring a database rollback.
type mockTxManager struct {
	snapshot func() (restore func())
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	var restore func()
	if m.snapshot != nil {
		restore = m.snapshot()
	}
	if err := fn(ctx); err != nil {
		if restore != nil {
			restore()
		}
		return err
	}
	return nil
}

// recordingActivityLogger captures entries synchronously for assertions.
type recordingActivityLogger struct {
	mu      sync.Mutex
	entries []service.ActivityEntry
}

func (l *recordingActivityLogger) Record(entry service.ActivityEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *recordingActivityLogger) Close() {}

func (l *recordingActivityLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

type broadcastEvent struct {
	Event string
	Data  map[string]interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) Publish(event string, data map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{Event: event, Data: data})
}
