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

var _ = Describe("ReportService", func() {
	var (
		reportService service.ReportService
		reportRepo    *mockReportRepo
		txRepo        *mockTransactionRepo
		activity      *recordingActivityLogger

		ctx     context.Context
		actorID string
		ledger  []model.ItemTransaction
	)

	BeforeEach(func() {
		ctx = context.Background()
		txRepo = newMockTransactionRepo()
		reportRepo = newMockReportRepo(txRepo)
		activity = &recordingActivityLogger{}
		reportService = service.NewReportService(reportRepo, txRepo, &mockTxManager{}, activity)

		actorID = uuid.NewString()

		ledger = nil
		for i := 0; i < 2; i++ {
			now := time.Now()
			entry := model.ItemTransaction{
				ItemID:       uuid.New(),
				EmployeeID:   uuid.New(),
				IssuedAt:     &now,
				StatusBefore: model.ItemStatusAvailable,
				StatusAfter:  model.ItemStatusInUse,
			}
			Expect(txRepo.Create(ctx, &entry)).To(Succeed())
			ledger = append(ledger, entry)
		}
	})

	newRequest := func(txIDs ...string) service.CreateReportRequest {
		return service.CreateReportRequest{
			Title:          "Weekly issue summary",
			ReportType:     model.ReportTypeWeekly,
			StartDate:      "2026-08-01",
			EndDate:        "2026-08-07",
			TransactionIDs: txIDs,
		}
	}

	Describe("CreateReport", func() {
		It("creates a draft report linked to the chosen transactions", func() {
			res, err := reportService.CreateReport(ctx, actorID,
				newRequest(ledger[0].ID.String(), ledger[1].ID.String()))

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(model.ReportStatusDraft))

			loaded, err := reportService.GetReport(ctx, res.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.Transactions).To(HaveLen(2))

			got := []string{loaded.Transactions[0].ID, loaded.Transactions[1].ID}
			Expect(got).To(ConsistOf(ledger[0].ID.String(), ledger[1].ID.String()))
		})

		It("rejects a report referencing a missing transaction", func() {
			_, err := reportService.CreateReport(ctx, actorID,
				newRequest(ledger[0].ID.String(), uuid.NewString()))

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})

		It("rejects an end date before the start date", func() {
			req := newRequest(ledger[0].ID.String())
			req.StartDate = "2026-08-07"
			req.EndDate = "2026-08-01"

			_, err := reportService.CreateReport(ctx, actorID, req)
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})
	})

	Describe("status transitions", func() {
		var reportID string

		BeforeEach(func() {
			res, err := reportService.CreateReport(ctx, actorID, newRequest(ledger[0].ID.String()))
			Expect(err).ToNot(HaveOccurred())
			reportID = res.ID
		})

		It("walks draft -> submitted -> approved", func() {
			submitted, err := reportService.SubmitReport(ctx, actorID, reportID)
			Expect(err).ToNot(HaveOccurred())
			Expect(submitted.Status).To(Equal(model.ReportStatusSubmitted))

			approved, err := reportService.ApproveReport(ctx, actorID, reportID)
			Expect(err).ToNot(HaveOccurred())
			Expect(approved.Status).To(Equal(model.ReportStatusApproved))
			Expect(approved.ApprovedBy).To(Equal(actorID))
			Expect(approved.ApprovedAt).ToNot(BeEmpty())
		})

		It("records the rejection reason", func() {
			_, err := reportService.SubmitReport(ctx, actorID, reportID)
			Expect(err).ToNot(HaveOccurred())

			rejected, err := reportService.RejectReport(ctx, actorID, reportID, "numbers do not add up")
			Expect(err).ToNot(HaveOccurred())
			Expect(rejected.Status).To(Equal(model.ReportStatusRejected))
			Expect(rejected.RejectionReason).To(Equal("numbers do not add up"))
		})

		It("refuses to approve a draft", func() {
			_, err := reportService.ApproveReport(ctx, actorID, reportID)
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
		})

		It("refuses to submit twice", func() {
			_, err := reportService.SubmitReport(ctx, actorID, reportID)
			Expect(err).ToNot(HaveOccurred())

			_, err = reportService.SubmitReport(ctx, actorID, reportID)
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
		})
	})
})
