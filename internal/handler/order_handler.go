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

// OrderHandler exposes the issue/receive workflow.
type OrderHandler struct {
	orderService service.OrderService
	sessions     *session.Store
}

func NewOrderHandler(orderService service.OrderService, sessions *session.Store) *OrderHandler {
	return &OrderHandler{orderService: orderService, sessions: sessions}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders", middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin))
	{
		orders.POST("/issue", h.IssueItems)
		orders.POST("/receive", h.ReceiveItems)
		orders.GET("/open/:employee_id", h.OpenAssignments)
	}
}

// IssueItems assigns a batch of available items to one employee
// @Summary      Issue items
// @Description  Issues one or more available items to an employee in the same department. The whole batch applies atomically: ledger rows and item statuses commit together or not at all.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.IssueRequest  true  "Issue Payload"
// @Success      201      {object}  response.Response{data=service.BatchResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders/issue [post]
func (h *OrderHandler) IssueItems(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.orderService.Issue(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ReceiveItems reclaims a batch of items from one employee
// @Summary      Receive items
// @Description  Closes the open ledger entry for each selected item and returns it to available. Atomic per batch.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ReceiveRequest  true  "Receive Payload"
// @Success      200      {object}  response.Response{data=service.BatchResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders/receive [post]
func (h *OrderHandler) ReceiveItems(c *gin.Context) {
	var req service.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// OpenAssignments lists the items an employee currently holds
// @Summary      Open assignments
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  path      string  true  "Employee ID"
// @Success      200          {object}  response.Response{data=[]service.TransactionResponse}
// @Router       /api/orders/open/{employee_id} [get]
func (h *OrderHandler) OpenAssignments(c *gin.Context) {
	assignments, err := h.orderService.OpenAssignments(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignments))
}
