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

var _ = Describe("ItemService", func() {
	var (
		itemService service.ItemService
		itemRepo    *mockItemRepo
		txRepo      *mockTransactionRepo
		activity    *recordingActivityLogger
		hub         *recordingBroadcaster

		ctx     context.Context
		actorID string
		item    model.Item
	)

	BeforeEach(func() {
		ctx = context.Background()
		itemRepo = newMockItemRepo()
		txRepo = newMockTransactionRepo()
		activity = &recordingActivityLogger{}
		hub = &recordingBroadcaster{}

		itemService = service.NewItemService(itemRepo, txRepo, &mockTxManager{}, activity, hub)

		actorID = uuid.NewString()
		item = model.Item{
			ID:           uuid.New(),
			Name:         "Projector",
			CategoryID:   uuid.New(),
			DepartmentID: uuid.New(),
			SerialNumber: "PJ-100",
			Status:       model.ItemStatusAvailable,
		}
		Expect(itemRepo.Create(ctx, &item)).To(Succeed())
	})

	Describe("CreateItem", func() {
		It("creates an item as available", func() {
			res, err := itemService.CreateItem(ctx, actorID, service.CreateItemRequest{
				Name:         "Monitor",
				CategoryID:   uuid.NewString(),
				DepartmentID: uuid.NewString(),
				SerialNumber: "MN-001",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(model.ItemStatusAvailable))
			Expect(activity.count()).To(Equal(1))
		})

		It("rejects a blank name", func() {
			_, err := itemService.CreateItem(ctx, actorID, service.CreateItemRequest{
				Name:         "   ",
				CategoryID:   uuid.NewString(),
				DepartmentID: uuid.NewString(),
				SerialNumber: "MN-001",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})

		It("rejects a malformed category id", func() {
			_, err := itemService.CreateItem(ctx, actorID, service.CreateItemRequest{
				Name:         "Monitor",
				CategoryID:   "not-a-uuid",
				DepartmentID: uuid.NewString(),
				SerialNumber: "MN-001",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})
	})

	Describe("UpdateItemStatus", func() {
		It("marks an item damaged at any time", func() {
			res, err := itemService.UpdateItemStatus(ctx, actorID, item.ID.String(), service.UpdateItemStatusRequest{
				Status:    model.ItemStatusDamaged,
				Condition: "cracked lens",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(model.ItemStatusDamaged))
			Expect(res.Condition).To(Equal("cracked lens"))
			Expect(hub.events).To(HaveLen(1))
			Expect(hub.events[0].Event).To(Equal("item_status_changed"))
		})

		It("marks an open-assigned item damaged without closing the assignment", func() {
			now := time.Now()
			actor := uuid.MustParse(actorID)
			open := model.ItemTransaction{
				ItemID:       item.ID,
				EmployeeID:   uuid.New(),
				IssuedBy:     &actor,
				IssuedAt:     &now,
				StatusBefore: model.ItemStatusAvailable,
				StatusAfter:  model.ItemStatusInUse,
			}
			Expect(txRepo.Create(ctx, &open)).To(Succeed())

			_, err := itemService.UpdateItemStatus(ctx, actorID, item.ID.String(), service.UpdateItemStatusRequest{
				Status: model.ItemStatusDamaged,
			})

			Expect(err).ToNot(HaveOccurred())
			stillOpen, openErr := txRepo.FindOpenByItem(ctx, item.ID)
			Expect(openErr).ToNot(HaveOccurred())
			Expect(stillOpen.Open()).To(BeTrue())
		})

		It("refuses available while an open assignment exists", func() {
			now := time.Now()
			open := model.ItemTransaction{
				ItemID:       item.ID,
				EmployeeID:   uuid.New(),
				IssuedAt:     &now,
				StatusBefore: model.ItemStatusAvailable,
				StatusAfter:  model.ItemStatusInUse,
			}
			Expect(txRepo.Create(ctx, &open)).To(Succeed())

			_, err := itemService.UpdateItemStatus(ctx, actorID, item.ID.String(), service.UpdateItemStatusRequest{
				Status: model.ItemStatusAvailable,
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("open assignment"))
		})

		It("never accepts in_use manually", func() {
			_, err := itemService.UpdateItemStatus(ctx, actorID, item.ID.String(), service.UpdateItemStatusRequest{
				Status: model.ItemStatusInUse,
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})

		It("restores a repaired item to available when nothing is open", func() {
			item.Status = model.ItemStatusUnderRepair
			Expect(itemRepo.Update(ctx, &item)).To(Succeed())

			res, err := itemService.UpdateItemStatus(ctx, actorID, item.ID.String(), service.UpdateItemStatusRequest{
				Status: model.ItemStatusAvailable,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(model.ItemStatusAvailable))
		})
	})

	Describe("DeleteItem", func() {
		It("deletes an item with no ledger history", func() {
			Expect(itemService.DeleteItem(ctx, actorID, item.ID.String())).To(Succeed())

			_, err := itemRepo.FindByID(ctx, item.ID)
			Expect(err).To(HaveOccurred())
		})

		It("refuses to delete an item with ledger entries", func() {
			itemRepo.txCounts[item.ID] = 3

			err := itemService.DeleteItem(ctx, actorID, item.ID.String())
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Projector"))
		})

		It("returns not found for an unknown item", func() {
			err := itemService.DeleteItem(ctx, actorID, uuid.NewString())
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindNotFound)).To(BeTrue())
		})
	})
})
