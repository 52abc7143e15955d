package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/google/uuid"
)

var _ = Describe("EmployeeService", func() {
	var (
		employeeService service.EmployeeService
		employeeRepo    *mockEmployeeRepo
		activity        *recordingActivityLogger

		ctx      context.Context
		actorID  string
		deptID   uuid.UUID
		employee model.Employee
	)

	BeforeEach(func() {
		ctx = context.Background()
		employeeRepo = newMockEmployeeRepo()
		activity = &recordingActivityLogger{}
		employeeService = service.NewEmployeeService(employeeRepo, activity)

		actorID = uuid.NewString()
		deptID = uuid.New()
		employee = model.Employee{
			ID:           uuid.New(),
			FirstName:    "Nodira",
			LastName:     "Yusupova",
			DepartmentID: deptID,
			Position:     "Storekeeper",
		}
		Expect(employeeRepo.Create(ctx, &employee)).To(Succeed())
	})

	Describe("CreateEmployee", func() {
		It("creates an employee in the given department", func() {
			res, err := employeeService.CreateEmployee(ctx, actorID, service.EmployeeRequest{
				FirstName:    "Bek",
				LastName:     "Tashkentov",
				DepartmentID: deptID.String(),
				Position:     "Technician",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.DepartmentID).To(Equal(deptID.String()))
			Expect(activity.count()).To(Equal(1))
		})

		It("rejects a blank name", func() {
			_, err := employeeService.CreateEmployee(ctx, actorID, service.EmployeeRequest{
				FirstName:    "",
				LastName:     "Tashkentov",
				DepartmentID: deptID.String(),
			})

			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindValidation)).To(BeTrue())
		})
	})

	Describe("DeleteEmployee", func() {
		It("deletes an employee without a login account", func() {
			Expect(employeeService.DeleteEmployee(ctx, actorID, employee.ID.String())).To(Succeed())

			_, err := employeeRepo.FindByID(ctx, employee.ID)
			Expect(err).To(HaveOccurred())
		})

		It("refuses to delete an employee with a login account", func() {
			employeeRepo.linkedUsers[employee.ID] = true

			err := employeeService.DeleteEmployee(ctx, actorID, employee.ID.String())
			Expect(err).To(HaveOccurred())
			Expect(apperror.IsKind(err, apperror.KindConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("login account"))

			_, findErr := employeeRepo.FindByID(ctx, employee.ID)
			Expect(findErr).ToNot(HaveOccurred())
		})
	})
})
