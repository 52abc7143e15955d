package handler

import (
	"net/http"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/middleware"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/pagination"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	sessions        *session.Store
}

func NewEmployeeHandler(employeeService service.EmployeeService, sessions *session.Store) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, sessions: sessions}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin)
	write := middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin)

	employees := router.Group("/api/employees")
	{
		employees.GET("", read, h.GetEmployees)
		employees.GET("/:id", read, h.GetEmployee)
		employees.POST("", write, h.CreateEmployee)
		employees.PUT("/:id", write, h.UpdateEmployee)
		employees.DELETE("/:id", write, h.DeleteEmployee)
	}
}

// GetEmployees lists employees
// @Summary      List employees
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Items per page"
// @Param        department_id  query     string  false  "Filter by department"
// @Param        search         query     string  false  "Search by name"
// @Success      200            {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	params := pagination.Parse(c)
	emps, total, err := h.employeeService.GetEmployees(c.Request.Context(), params.Page, params.Limit, c.Query("department_id"), c.Query("search"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(emps, total, params.Page, params.Limit)))
}

// GetEmployee fetches one employee
// @Summary      Get employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	emp, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// CreateEmployee registers an employee
// @Summary      Create employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.EmployeeRequest  true  "Create Employee Payload"
// @Success      201      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.employeeService.CreateEmployee(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, emp))
}

// UpdateEmployee edits an employee
// @Summary      Update employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Employee ID"
// @Param        payload  body      service.EmployeeRequest  true  "Update Employee Payload"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// DeleteEmployee removes an employee without a login account
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Employee deleted successfully"))
}
