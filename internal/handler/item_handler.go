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

type ItemHandler struct {
	itemService service.ItemService
	sessions    *session.Store
}

func NewItemHandler(itemService service.ItemService, sessions *session.Store) *ItemHandler {
	return &ItemHandler{itemService: itemService, sessions: sessions}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin)
	write := middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin)

	items := router.Group("/api/items")
	{
		items.GET("", read, h.GetItems)
		items.GET("/:id", read, h.GetItem)
		items.POST("", write, h.CreateItem)
		items.PUT("/:id", write, h.UpdateItem)
		items.PATCH("/:id/status", write, h.UpdateItemStatus)
		items.DELETE("/:id", write, h.DeleteItem)
	}
}

// GetItems lists inventory items
// @Summary      List items
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Items per page"
// @Param        department_id  query     string  false  "Filter by department"
// @Param        category_id    query     string  false  "Filter by category"
// @Param        status         query     string  false  "Filter by status"
// @Param        search         query     string  false  "Search name or serial number"
// @Success      200  {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	params := pagination.Parse(c)
	query := service.ItemListQuery{
		DepartmentID: c.Query("department_id"),
		CategoryID:   c.Query("category_id"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
	}

	items, total, err := h.itemService.GetItems(c.Request.Context(), params.Page, params.Limit, query)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(items, total, params.Page, params.Limit)))
}

// GetItem fetches one item
// @Summary      Get item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem registers a new inventory item
// @Summary      Create item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem edits item metadata
// @Summary      Update item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItemStatus applies a manual lifecycle change (damaged, under_repair,
// discarded, or back to available). in_use is reserved for the workflow.
// @Summary      Update item status
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Item ID"
// @Param        payload  body      service.UpdateItemStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/items/{id}/status [patch]
func (h *ItemHandler) UpdateItemStatus(c *gin.Context) {
	var req service.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItemStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an item with no ledger history
// @Summary      Delete item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemService.DeleteItem(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}
