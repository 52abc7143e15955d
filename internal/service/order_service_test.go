package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
)

var _ = Describe("OrderService", func() {
	var (
		orderService service.OrderService
		itemRepo     *mockItemRepo
		txRepo       *mockTransactionRepo
		employeeRepo *mockEmployeeRepo
		txManager    *mockTxManager
		activity     *recordingActivityLogger
		hub          *recordingBroadcaster

		ctx      context.Context
		actorID  string
		deptID   uuid.UUID
		employee model.Employee
		itemA    model.Item
		itemB    model.Item
	)

	BeforeEach(func() {
		ctx = context.Background()
		itemRepo = newMockItemRepo()
		txRepo = newMockTransactionRepo()
		employeeRepo = newMockEmployeeRepo()
		activity = &recordingActivityLogger{}
		hub = &recordingBroadcaster{}

		txManager = &mockTxManager{snapshot: func() func() {
			items := itemRepo.dump()
			txs := txRepo.dump()
			return func() {
				itemRepo.load(items)
				txRepo.load(txs)
			}
		}}

		orderService = service.NewOrderService(itemRepo, txRepo, employeeRepo, txManager, activity, hub)

		actorID = uuid.NewString()
		deptID = uuid.New()

		employee = model.Employee{
			ID:           uuid.New(),
			FirstName:    "Aziz",
			LastName:     "Karimov",
			DepartmentID: deptID,
		}
		Expect(employeeRepo.Create(ctx, &employee)).To(Succeed())

		itemA = model.Item{
			ID:           uuid.New(),
			Name:         "Drill",
			CategoryID:   uuid.New(),
			DepartmentID: deptID,
			SerialNumber: "DR-001",
			Status:       model.ItemStatusAvailable,
		}
		itemB = model.Item{
			ID:           uuid.New(),
			Name:         "Ladder",
			CategoryID:   uuid.New(),
			DepartmentID: deptID,
			SerialNumber: "LD-001",
			Status:       model.ItemStatusAvailable,
		}
		Expect(itemRepo.Create(ctx, &itemA)).To(Succeed())
		Expect(itemRepo.Create(ctx, &itemB)).To(Succeed())
	})

	Describe("Issue", func() {
		It("issues available items and marks them in_use", func() {
			result, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String(), itemB.ID.String()},
				Notes:      "field work",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ItemCount).To(Equal(2))
			Expect(result.TransactionIDs).To(HaveLen(2))

			for _, id := range []uuid.UUID{itemA.ID, itemB.ID} {
				stored, findErr := itemRepo.FindByID(ctx, id)
				Expect(findErr).ToNot(HaveOccurred())
				Expect(stored.Status).To(Equal(model.ItemStatusInUse))

				open, openErr := txRepo.FindOpenByItem(ctx, id)
				Expect(openErr).ToNot(HaveOccurred())
				Expect(open.EmployeeID).To(Equal(employee.ID))
				Expect(open.StatusBefore).To(Equal(model.ItemStatusAvailable))
				Expect(open.StatusAfter).To(Equal(model.ItemStatusInUse))
			}

			Expect(activity.count()).To(Equal(2))
			Expect(hub.events).To(HaveLen(1))
			Expect(hub.events[0].Event).To(Equal("items_issued"))
		})

		It("rejects an item that is not available and names it", func() {
			itemB.Status = model.ItemStatusDamaged
			Expect(itemRepo.Update(ctx, &itemB)).To(Succeed())

			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemB.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Ladder"))
			Expect(err.Error()).To(ContainSubstring("damaged"))
		})

		It("rejects an item from a different department", func() {
			other := model.Item{
				ID:           uuid.New(),
				Name:         "Scanner",
				CategoryID:   uuid.New(),
				DepartmentID: uuid.New(),
				SerialNumber: "SC-001",
				Status:       model.ItemStatusAvailable,
			}
			Expect(itemRepo.Create(ctx, &other)).To(Succeed())

			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{other.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Scanner"))
			Expect(err.Error()).To(ContainSubstring("department"))
		})

		It("applies nothing when one item in the batch fails", func() {
			itemB.Status = model.ItemStatusInUse
			Expect(itemRepo.Update(ctx, &itemB)).To(Succeed())

			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String(), itemB.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Ladder"))

			// The valid item must be untouched and no ledger rows created.
			stored, findErr := itemRepo.FindByID(ctx, itemA.ID)
			Expect(findErr).ToNot(HaveOccurred())
			Expect(stored.Status).To(Equal(model.ItemStatusAvailable))
			Expect(txRepo.txs).To(BeEmpty())
			Expect(activity.count()).To(BeZero())
			Expect(hub.events).To(BeEmpty())
		})

		It("returns not found for an unknown employee", func() {
			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: uuid.NewString(),
				ItemIDs:    []string{itemA.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindNotFound)).To(BeTrue())
		})
	})

	Describe("Receive", func() {
		It("rejects an item with no open assignment", func() {
			_, err := orderService.Receive(ctx, actorID, service.ReceiveRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("no open assignment"))
		})

		It("rejects an item held by a different employee", func() {
			other := model.Employee{ID: uuid.New(), FirstName: "Dil", LastName: "Rashidov", DepartmentID: deptID}
			Expect(employeeRepo.Create(ctx, &other)).To(Succeed())

			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = orderService.Receive(ctx, actorID, service.ReceiveRequest{
				EmployeeID: other.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("not assigned"))
		})

		It("closes only the selected assignments", func() {
			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String(), itemB.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())

			result, err := orderService.Receive(ctx, actorID, service.ReceiveRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.ItemCount).To(Equal(1))

			storedA, _ := itemRepo.FindByID(ctx, itemA.ID)
			storedB, _ := itemRepo.FindByID(ctx, itemB.ID)
			Expect(storedA.Status).To(Equal(model.ItemStatusAvailable))
			Expect(storedB.Status).To(Equal(model.ItemStatusInUse))

			_, openErr := txRepo.FindOpenByItem(ctx, itemA.ID)
			Expect(openErr).To(HaveOccurred())

			open, err := orderService.OpenAssignments(ctx, employee.ID.String())
			Expect(err).ToNot(HaveOccurred())
			Expect(open).To(HaveLen(1))
			Expect(open[0].ItemID).To(Equal(itemB.ID.String()))
		})

		It("keeps a damaged status through the return", func() {
			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())

			// Marked damaged while out; the return must not resurrect it.
			damaged, _ := itemRepo.FindByID(ctx, itemA.ID)
			damaged.Status = model.ItemStatusDamaged
			Expect(itemRepo.Update(ctx, damaged)).To(Succeed())

			_, err = orderService.Receive(ctx, actorID, service.ReceiveRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())

			stored, _ := itemRepo.FindByID(ctx, itemA.ID)
			Expect(stored.Status).To(Equal(model.ItemStatusDamaged))

			// The ledger row is closed regardless.
			_, openErr := txRepo.FindOpenByItem(ctx, itemA.ID)
			Expect(openErr).To(HaveOccurred())
		})

		It("stamps the receiver and return time on the ledger row", func() {
			before := time.Now().Add(-time.Second)

			_, err := orderService.Issue(ctx, actorID, service.IssueRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
			})
			Expect(err).ToNot(HaveOccurred())

			result, err := orderService.Receive(ctx, actorID, service.ReceiveRequest{
				EmployeeID: employee.ID.String(),
				ItemIDs:    []string{itemA.ID.String()},
				Notes:      "returned intact",
			})
			Expect(err).ToNot(HaveOccurred())

			closedID := uuid.MustParse(result.TransactionIDs[0])
			closed, findErr := txRepo.FindByID(ctx, closedID)
			Expect(findErr).ToNot(HaveOccurred())
			Expect(closed.Open()).To(BeFalse())
			Expect(closed.ReceivedBy).ToNot(BeNil())
			Expect(closed.ReceivedBy.String()).To(Equal(actorID))
			Expect(closed.ReturnedAt.After(before)).To(BeTrue())
			Expect(closed.Notes).To(Equal("returned intact"))
		})
	})
})
