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

// TransactionHandler exposes read-only access to the issue/receive ledger.
// Mutations happen exclusively through the order workflow.
type TransactionHandler struct {
	transactionService service.TransactionService
	sessions           *session.Store
}

func NewTransactionHandler(transactionService service.TransactionService, sessions *session.Store) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, sessions: sessions}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions", middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin))
	{
		transactions.GET("", h.GetTransactions)
		transactions.GET("/:id", h.GetTransaction)
	}
}

// GetTransactions lists ledger entries
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        item_id      query     string  false  "Filter by item"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        from         query     string  false  "Issued at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to           query     string  false  "Issued before (exclusive)"
// @Param        open         query     bool    false  "Only open entries"
// @Success      200          {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	params := pagination.Parse(c)
	query := service.TransactionListQuery{
		ItemID:     c.Query("item_id"),
		EmployeeID: c.Query("employee_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		OpenOnly:   c.Query("open") == "true",
	}

	txs, total, err := h.transactionService.GetTransactions(c.Request.Context(), params.Page, params.Limit, query)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(txs, total, params.Page, params.Limit)))
}

// GetTransaction fetches one ledger entry
// @Summary      Get transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=service.TransactionResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}
