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

type DepartmentHandler struct {
	departmentService service.DepartmentService
	sessions          *session.Store
}

func NewDepartmentHandler(departmentService service.DepartmentService, sessions *session.Store) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService, sessions: sessions}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin)
	write := middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin)

	departments := router.Group("/api/departments")
	{
		departments.GET("", read, h.GetDepartments)
		departments.GET("/:id", read, h.GetDepartment)
		departments.POST("", write, h.CreateDepartment)
		departments.PUT("/:id", write, h.UpdateDepartment)
		departments.DELETE("/:id", write, h.DeleteDepartment)
	}
}

// GetDepartments lists departments
// @Summary      List departments
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response
// @Router       /api/departments [get]
func (h *DepartmentHandler) GetDepartments(c *gin.Context) {
	params := pagination.Parse(c)
	depts, total, err := h.departmentService.GetDepartments(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(depts, total, params.Page, params.Limit)))
}

// GetDepartment fetches one department
// @Summary      Get department
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=service.DepartmentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, err := h.departmentService.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}

// CreateDepartment adds a department
// @Summary      Create department
// @Tags         departments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DepartmentRequest  true  "Create Department Payload"
// @Success      201      {object}  response.Response{data=service.DepartmentResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/departments [post]
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dept))
}

// UpdateDepartment edits a department
// @Summary      Update department
// @Tags         departments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Department ID"
// @Param        payload  body      service.DepartmentRequest  true  "Update Department Payload"
// @Success      200      {object}  response.Response{data=service.DepartmentResponse}
// @Router       /api/departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dept, err := h.departmentService.UpdateDepartment(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}

// DeleteDepartment removes an empty department
// @Summary      Delete department
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.departmentService.DeleteDepartment(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Department deleted successfully"))
}
