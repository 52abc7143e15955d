package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"

	"github.com/google/uuid"
)

func TestTransactionRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TransactionRepository Suite")
}

var _ = Describe("TransactionRepository", func() {
	var (
		db   *gorm.DB
		repo repository.TransactionRepository
		ctx  context.Context

		dept     model.Department
		employee model.Employee
		category model.ItemCategory
		item     model.Item
	)

	issueEntry := func(itemID, employeeID uuid.UUID, issuedAt time.Time) model.ItemTransaction {
		entry := model.ItemTransaction{
			ItemID:       itemID,
			EmployeeID:   employeeID,
			IssuedAt:     &issuedAt,
			StatusBefore: model.ItemStatusAvailable,
			StatusAfter:  model.ItemStatusInUse,
		}
		Expect(repo.Create(ctx, &entry)).To(Succeed())
		return entry
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&model.Department{},
			&model.Employee{},
			&model.ItemCategory{},
			&model.Item{},
			&model.ItemTransaction{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = repository.NewTransactionRepository(db)

		dept = model.Department{Name: "Maintenance"}
		Expect(db.Create(&dept).Error).To(Succeed())

		employee = model.Employee{FirstName: "Olim", LastName: "Saidov", DepartmentID: dept.ID}
		Expect(db.Create(&employee).Error).To(Succeed())

		category = model.ItemCategory{Name: "Tools"}
		Expect(db.Create(&category).Error).To(Succeed())

		item = model.Item{
			Name:         "Wrench",
			CategoryID:   category.ID,
			DepartmentID: dept.ID,
			SerialNumber: "WR-001",
			Status:       model.ItemStatusAvailable,
		}
		Expect(db.Create(&item).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("FindOpenByItem", func() {
		It("returns the open entry for an issued item", func() {
			entry := issueEntry(item.ID, employee.ID, time.Now())

			open, err := repo.FindOpenByItem(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(open.ID).To(Equal(entry.ID))
			Expect(open.Open()).To(BeTrue())
		})

		It("returns record-not-found for an item that is not out", func() {
			_, err := repo.FindOpenByItem(ctx, item.ID)
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
		})

		It("ignores closed entries", func() {
			entry := issueEntry(item.ID, employee.ID, time.Now().Add(-time.Hour))
			Expect(repo.Close(ctx, entry.ID, uuid.New(), time.Now(), "")).To(Succeed())

			_, err := repo.FindOpenByItem(ctx, item.ID)
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
		})
	})

	Describe("Close", func() {
		It("stamps return fields on the open row without inserting another", func() {
			entry := issueEntry(item.ID, employee.ID, time.Now().Add(-time.Hour))
			receiver := uuid.New()
			returnedAt := time.Now()

			Expect(repo.Close(ctx, entry.ID, receiver, returnedAt, "ok")).To(Succeed())

			var count int64
			Expect(db.Model(&model.ItemTransaction{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))

			closed, err := repo.FindByID(ctx, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(closed.Open()).To(BeFalse())
			Expect(*closed.ReceivedBy).To(Equal(receiver))
			Expect(closed.StatusAfter).To(Equal(model.ItemStatusAvailable))
			Expect(closed.Notes).To(Equal("ok"))
		})

		It("does not touch an already closed row", func() {
			entry := issueEntry(item.ID, employee.ID, time.Now().Add(-2*time.Hour))
			first := uuid.New()
			Expect(repo.Close(ctx, entry.ID, first, time.Now().Add(-time.Hour), "")).To(Succeed())

			Expect(repo.Close(ctx, entry.ID, uuid.New(), time.Now(), "")).To(Succeed())

			closed, err := repo.FindByID(ctx, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*closed.ReceivedBy).To(Equal(first))
		})
	})

	Describe("ListOpenByEmployee", func() {
		It("returns only the employee's open entries", func() {
			second := model.Item{
				Name:         "Hammer",
				CategoryID:   category.ID,
				DepartmentID: dept.ID,
				SerialNumber: "HM-001",
				Status:       model.ItemStatusAvailable,
			}
			Expect(db.Create(&second).Error).To(Succeed())

			other := model.Employee{FirstName: "Malika", LastName: "Akhmedova", DepartmentID: dept.ID}
			Expect(db.Create(&other).Error).To(Succeed())

			issueEntry(item.ID, employee.ID, time.Now())
			closedEntry := issueEntry(second.ID, employee.ID, time.Now().Add(-time.Hour))
			Expect(repo.Close(ctx, closedEntry.ID, uuid.New(), time.Now(), "")).To(Succeed())

			open, err := repo.ListOpenByEmployee(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(HaveLen(1))
			Expect(open[0].ItemID).To(Equal(item.ID))
			Expect(open[0].Item).NotTo(BeNil())
			Expect(open[0].Item.Name).To(Equal("Wrench"))

			open, err = repo.ListOpenByEmployee(ctx, other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("filters by issue date range", func() {
			old := issueEntry(item.ID, employee.ID, time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC))
			Expect(repo.Close(ctx, old.ID, uuid.New(), time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC), "")).To(Succeed())
			recent := issueEntry(item.ID, employee.ID, time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))

			from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

			txs, total, err := repo.List(ctx, 1, 20, repository.TransactionFilter{From: &from, To: &to})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(txs[0].ID).To(Equal(recent.ID))
		})

		It("filters open entries only", func() {
			closedEntry := issueEntry(item.ID, employee.ID, time.Now().Add(-2*time.Hour))
			Expect(repo.Close(ctx, closedEntry.ID, uuid.New(), time.Now().Add(-time.Hour), "")).To(Succeed())
			openEntry := issueEntry(item.ID, employee.ID, time.Now())

			txs, total, err := repo.List(ctx, 1, 20, repository.TransactionFilter{OpenOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(txs[0].ID).To(Equal(openEntry.ID))
		})
	})

	Describe("DetachUser", func() {
		It("nulls admin references without deleting history", func() {
			admin := uuid.New()
			now := time.Now()
			entry := model.ItemTransaction{
				ItemID:       item.ID,
				EmployeeID:   employee.ID,
				IssuedBy:     &admin,
				IssuedAt:     &now,
				StatusBefore: model.ItemStatusAvailable,
				StatusAfter:  model.ItemStatusInUse,
			}
			Expect(repo.Create(ctx, &entry)).To(Succeed())

			Expect(repo.DetachUser(ctx, admin)).To(Succeed())

			detached, err := repo.FindByID(ctx, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(detached.IssuedBy).To(BeNil())
			Expect(detached.Open()).To(BeTrue())
		})
	})
})
