package handler

import (
	"net/http"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/middleware"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	sessions        *session.Store
}

func NewCategoryHandler(categoryService service.CategoryService, sessions *session.Store) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, sessions: sessions}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin)
	write := middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin)

	categories := router.Group("/api/categories")
	{
		categories.GET("", read, h.GetCategories)
		categories.POST("", write, h.CreateCategory)
		categories.PUT("/:id", write, h.UpdateCategory)
		categories.DELETE("/:id", write, h.DeleteCategory)
	}
}

// GetCategories lists item categories
// @Summary      List categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        department_id  query     string  false  "Filter by department"
// @Success      200            {object}  response.Response{data=[]service.CategoryResponse}
// @Router       /api/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	cats, err := h.categoryService.GetCategories(c.Request.Context(), c.Query("department_id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cats))
}

// CreateCategory adds a category
// @Summary      Create category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoryRequest  true  "Create Category Payload"
// @Success      201      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, cat))
}

// UpdateCategory edits a category
// @Summary      Update category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Update Category Payload"
// @Success      200      {object}  response.Response{data=service.CategoryResponse}
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cat))
}

// DeleteCategory removes an unused category
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Category deleted successfully"))
}
